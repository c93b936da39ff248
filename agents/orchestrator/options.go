/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"chainguard.dev/prreport/agents/metrics"
)

const (
	// DefaultMaxSteps bounds the number of model invocations per run.
	DefaultMaxSteps = 16
	// DefaultTimeout bounds the wall-clock duration of a run.
	DefaultTimeout = 5 * time.Minute
)

type settings struct {
	maxSteps int
	timeout  time.Duration
	observer func(State)
	metrics  *metrics.GenAI
}

// Option configures an Orchestrator.
type Option func(*settings) error

// WithMaxSteps bounds the number of AGENT steps in one run.
func WithMaxSteps(n int) Option {
	return func(s *settings) error {
		if n <= 0 {
			return fmt.Errorf("max steps must be positive, got %d", n)
		}
		s.maxSteps = n
		return nil
	}
}

// WithTimeout bounds the wall-clock time of one run.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		s.timeout = d
		return nil
	}
}

// WithStepObserver is called with every state the run enters, in order.
func WithStepObserver(fn func(State)) Option {
	return func(s *settings) error {
		if fn == nil {
			return errors.New("step observer cannot be nil")
		}
		s.observer = fn
		return nil
	}
}

// WithMetrics replaces the GenAI metrics recorder.
func WithMetrics(m *metrics.GenAI) Option {
	return func(s *settings) error {
		s.metrics = m
		return nil
	}
}
