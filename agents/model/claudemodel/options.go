/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudemodel

import (
	"fmt"
	"strings"

	"chainguard.dev/prreport/agents/metrics"
	"chainguard.dev/prreport/agents/retry"
)

// Option configures a Model.
type Option func(*Model) error

// WithModel overrides the Claude model name.
func WithModel(name string) Option {
	return func(m *Model) error {
		if !strings.HasPrefix(name, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", name)
		}
		m.name = name
		return nil
	}
}

// WithMaxTokens sets the maximum tokens per response.
func WithMaxTokens(tokens int64) Option {
	return func(m *Model) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		m.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0 and 1.
func WithTemperature(temp float64) Option {
	return func(m *Model) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		m.temperature = temp
		return nil
	}
}

// WithRetryConfig sets the backoff used for 429 and 529 errors.
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
