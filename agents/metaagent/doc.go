/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metaagent picks a model and embedding provider from a model name.
//
// # Model Support
//
//   - Models starting with "gpt-" or "o" followed by a digit use OpenAI
//   - Models starting with "claude-" use Anthropic, directly with an API key
//     or through Vertex AI
//   - Models starting with "gemini-" use Google's Generative AI SDK, through
//     the Gemini API with an API key or Vertex AI with a project
//
// Usage:
//
//	m, err := metaagent.NewModel(ctx, metaagent.Config{
//		Model:        "gpt-4o",
//		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
//	})
package metaagent
