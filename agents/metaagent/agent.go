/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/prreport/agents/model"
	"chainguard.dev/prreport/retrieval/embedding"
)

// Provider names a model vendor.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// ProviderFor returns the provider serving the named model.
func ProviderFor(name string) (Provider, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "gemini-"):
		return ProviderGoogle, nil
	case strings.HasPrefix(lower, "claude-"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(lower, "gpt-"), isOpenAIReasoning(lower):
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unsupported model: %s (expected gpt-*, o*, claude-* or gemini-*)", name)
	}
}

// NewModel creates the chat model named by cfg.Model.
func NewModel(ctx context.Context, cfg Config) (model.Model, error) {
	p, err := ProviderFor(cfg.Model)
	if err != nil {
		return nil, err
	}
	switch p {
	case ProviderGoogle:
		return newGoogleModel(ctx, cfg)
	case ProviderAnthropic:
		return newClaudeModel(ctx, cfg)
	default:
		return newOpenAIModel(cfg)
	}
}

// NewEmbedder creates the embedder for the corpus. Gemini chat models
// embed with Gemini; everything else embeds with OpenAI, since Anthropic
// has no embedding API.
func NewEmbedder(ctx context.Context, cfg Config) (embedding.Embedder, error) {
	p, err := ProviderFor(cfg.Model)
	if err != nil {
		return nil, err
	}
	if p == ProviderGoogle {
		return newGoogleEmbedder(ctx, cfg)
	}
	return newOpenAIEmbedder(cfg), nil
}

// isOpenAIReasoning matches o1, o3-mini, o4-mini and the like.
func isOpenAIReasoning(name string) bool {
	return len(name) > 1 && name[0] == 'o' && name[1] >= '0' && name[1] <= '9'
}
