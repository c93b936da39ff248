/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
)

const (
	// Version prefixes every key. Bumping it orphans all existing entries.
	Version = "V2"
	// DefaultTTL applies when Wrap is given a non-positive ttl.
	DefaultTTL = 20 * time.Second
)

// Store persists opaque values under composite keys. Implementations must
// allow concurrent readers; concurrent writers are last-write-wins.
type Store interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key []string) ([]byte, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key []string, value []byte) error
}

// KeyFunc derives the logical key parts for a call's parameters.
type KeyFunc[P any] func(P) []string

// Entry is the stored form of a cached result.
type Entry[R any] struct {
	Timestamp time.Time `json:"timestamp"`
	Value     R         `json:"value"`
}

type config struct {
	name string
	now  func() time.Time
}

// Option configures Wrap.
type Option func(*config)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithName labels the wrapped function in logs and metrics.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// Wrap memoizes fn in store. A stored result younger than ttl is returned
// without calling fn. Otherwise fn runs and a successful result is stored;
// errors are never cached. Store failures are logged and do not affect the
// returned value.
func Wrap[P, R any](fn func(context.Context, P) (R, error), key KeyFunc[P], ttl time.Duration, store Store, opts ...Option) func(context.Context, P) (R, error) {
	cfg := config{name: "default", now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := metricsFor(cfg.name)

	return func(ctx context.Context, p P) (R, error) {
		k := append([]string{Version}, key(p)...)
		log := clog.FromContext(ctx).With("cache", cfg.name).With("key", k)

		if raw, ok, err := store.Get(ctx, k); err != nil {
			m.readFailures.Inc()
			log.Warn("Cache read failed", "error", err)
		} else if ok {
			var entry Entry[R]
			switch err := json.Unmarshal(raw, &entry); {
			case err != nil:
				m.readFailures.Inc()
				log.Warn("Cache entry undecodable, recomputing", "error", err)
			case cfg.now().Sub(entry.Timestamp) < ttl:
				m.hits.Inc()
				log.Debug("Cache hit")
				return entry.Value, nil
			}
		}

		m.misses.Inc()
		log.Debug("Cache miss, computing value")
		value, err := fn(ctx, p)
		if err != nil {
			return value, err
		}

		raw, err := json.Marshal(Entry[R]{Timestamp: cfg.now().UTC(), Value: value})
		if err != nil {
			m.writeFailures.Inc()
			log.Error("Unable to encode result for cache", "error", err)
			return value, nil
		}
		if err := store.Set(ctx, k, raw); err != nil {
			m.writeFailures.Inc()
			log.Error("Unable to save the result", "error", err)
		}
		return value, nil
	}
}

// Hash returns the lowercase hex SHA-256 of s.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Key joins logical key parts with fmt.Sprint, for KeyFuncs over mixed types.
func Key(parts ...any) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = fmt.Sprint(p)
	}
	return out
}
