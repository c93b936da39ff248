/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"chainguard.dev/prreport/agents/metrics"
	"chainguard.dev/prreport/agents/retry"
)

// Config carries the credentials and tuning shared by every provider.
type Config struct {
	// Model is the chat model name; its prefix selects the provider.
	Model string

	// EmbeddingModel is the embedding model name. Empty picks the default
	// of the chat model's provider, or OpenAI's for Claude.
	EmbeddingModel string

	// Temperature is the sampling temperature.
	Temperature float64

	// ProjectID and Region select Vertex AI for Claude and Gemini.
	ProjectID string
	Region    string

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string

	// Retry overrides the providers' default backoff when set.
	Retry *retry.Config

	// Metrics receives token and tool-call counts. Nil uses each provider's
	// default recorder.
	Metrics *metrics.GenAI
}
