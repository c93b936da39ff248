/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlemodel

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/prreport/agents/metrics"
	"chainguard.dev/prreport/agents/retry"
	"google.golang.org/genai"
)

// Option configures a Model.
type Option func(*Model) error

// WithModel overrides the Gemini model name.
func WithModel(name string) Option {
	return func(m *Model) error {
		if !strings.HasPrefix(name, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", name)
		}
		m.name = name
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0 and 2.
func WithTemperature(temp float32) Option {
	return func(m *Model) error {
		if temp < 0 || temp > 2 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		m.temperature = temp
		return nil
	}
}

// WithRetryConfig sets the backoff used for quota and overload errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(m *Model) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		m.retryConfig = cfg
		return nil
	}
}

// WithMetrics replaces the GenAI metrics recorder.
func WithMetrics(g *metrics.GenAI) Option {
	return func(m *Model) error {
		m.metrics = g
		return nil
	}
}

// NewClient builds a genai client. With a project it targets Vertex AI,
// otherwise the Gemini API with apiKey.
func NewClient(ctx context.Context, projectID, region, apiKey string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI, APIKey: apiKey}
	if projectID != "" {
		cfg = &genai.ClientConfig{Backend: genai.BackendVertexAI, Project: projectID, Location: region}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}
