/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry retries transient model-provider failures (rate limits,
// overload, gateway errors) with capped exponential backoff and jitter.
//
// Retries happen inside a single provider call. The orchestrator itself never
// retries a failed model invocation.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config controls how often and how long a call is retried.
type Config struct {
	// Attempts is the number of retries after the first try. 0 disables retrying.
	Attempts int
	// Initial is the backoff before the first retry.
	Initial time.Duration
	// Ceiling caps the exponential backoff.
	Ceiling time.Duration
	// Jitter is the upper bound of random delay added to each backoff.
	Jitter time.Duration
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.Attempts < 0:
		return errors.New("retry attempts cannot be negative")
	case c.Initial < 0:
		return errors.New("initial backoff cannot be negative")
	case c.Ceiling < 0:
		return errors.New("backoff ceiling cannot be negative")
	case c.Jitter < 0:
		return errors.New("jitter cannot be negative")
	}
	return nil
}

// Default returns the configuration used by every model provider unless
// overridden. Quota errors recover slowly, so the initial backoff is a second.
func Default() Config {
	return Config{
		Attempts: 4,
		Initial:  time.Second,
		Ceiling:  30 * time.Second,
		Jitter:   500 * time.Millisecond,
	}
}

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// Do calls fn until it succeeds, returns an error the classifier rejects,
// the attempts are used up, or ctx is done.
func Do[T any](ctx context.Context, cfg Config, op string, retryable Classifier, fn func() (T, error)) (T, error) {
	var (
		out T
		err error
	)
	for attempt := 0; ; attempt++ {
		out, err = fn()
		if err == nil {
			return out, nil
		}
		if !retryable(err) {
			return out, err
		}
		if attempt >= cfg.Attempts {
			break
		}

		wait := backoff(cfg, attempt)
		clog.FromContext(ctx).With("operation", op).
			With("attempt", attempt+1).
			With("attempts", cfg.Attempts).
			With("backoff", wait).
			With("error", err.Error()).
			Warn("Transient provider error, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return out, ctx.Err()
		case <-timer.C:
		}
	}
	return out, fmt.Errorf("%s failed after %d retries: %w", op, cfg.Attempts, err)
}

func backoff(cfg Config, attempt int) time.Duration {
	wait := min(cfg.Initial<<attempt, cfg.Ceiling)
	if wait < 0 {
		// Shift overflow.
		wait = cfg.Ceiling
	}
	if cfg.Jitter > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.Jitter))); err == nil {
			wait += time.Duration(n.Int64())
		}
	}
	return wait
}

// HTTPStatus builds a classifier that retries when status(err) returns one of
// the given HTTP status codes.
func HTTPStatus(status func(error) (int, bool), codes ...int) Classifier {
	return func(err error) bool {
		code, ok := status(err)
		if !ok {
			return false
		}
		for _, c := range codes {
			if c == code {
				return true
			}
		}
		return false
	}
}
