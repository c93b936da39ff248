/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"fmt"

	"chainguard.dev/prreport/agents/model/openaimodel"
	"chainguard.dev/prreport/retrieval/embedding/openaiembed"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func openAIClient(cfg Config) openai.Client {
	var opts []option.RequestOption
	if cfg.OpenAIAPIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.OpenAIAPIKey))
	}
	return openai.NewClient(opts...)
}

func newOpenAIModel(cfg Config) (*openaimodel.Model, error) {
	opts := []openaimodel.Option{
		openaimodel.WithModel(cfg.Model),
		openaimodel.WithTemperature(cfg.Temperature),
	}
	if cfg.Retry != nil {
		opts = append(opts, openaimodel.WithRetryConfig(*cfg.Retry))
	}
	if cfg.Metrics != nil {
		opts = append(opts, openaimodel.WithMetrics(cfg.Metrics))
	}
	m, err := openaimodel.New(openAIClient(cfg), opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI model: %w", err)
	}
	return m, nil
}

func newOpenAIEmbedder(cfg Config) *openaiembed.Embedder {
	return openaiembed.New(openAIClient(cfg), cfg.EmbeddingModel)
}
