/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaimodel

import (
	"errors"
	"fmt"

	"chainguard.dev/prreport/agents/metrics"
	"chainguard.dev/prreport/agents/retry"
)

// Option configures a Model.
type Option func(*Model) error

// WithModel sets the chat model name.
func WithModel(name string) Option {
	return func(m *Model) error {
		if name == "" {
			return errors.New("model name cannot be empty")
		}
		m.name = name
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0 and 2.
func WithTemperature(temp float64) Option {
	return func(m *Model) error {
		if temp < 0 || temp > 2 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		m.temperature = temp
		return nil
	}
}

// WithRetryConfig sets the backoff used for rate-limit and 5xx errors.
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
