/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/prreport/agents/model/googlemodel"
	"chainguard.dev/prreport/retrieval/embedding/googleembed"
	"google.golang.org/genai"
)

func googleClient(ctx context.Context, cfg Config) (*genai.Client, error) {
	if cfg.ProjectID == "" && cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini models need a Vertex project or a Gemini API key")
	}
	return googlemodel.NewClient(ctx, cfg.ProjectID, cfg.Region, cfg.GeminiAPIKey)
}

func newGoogleModel(ctx context.Context, cfg Config) (*googlemodel.Model, error) {
	client, err := googleClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := []googlemodel.Option{
		googlemodel.WithModel(cfg.Model),
		googlemodel.WithTemperature(float32(cfg.Temperature)),
	}
	if cfg.Retry != nil {
		opts = append(opts, googlemodel.WithRetryConfig(*cfg.Retry))
	}
	if cfg.Metrics != nil {
		opts = append(opts, googlemodel.WithMetrics(cfg.Metrics))
	}
	m, err := googlemodel.New(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini model: %w", err)
	}
	return m, nil
}

func newGoogleEmbedder(ctx context.Context, cfg Config) (*googleembed.Embedder, error) {
	client, err := googleClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return googleembed.New(client, cfg.EmbeddingModel)
}
