/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package redisstore is a cache.Store shared across processes through Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"chainguard.dev/prreport/cache"
	"github.com/redis/go-redis/v9"
)

// Store keeps entries in Redis without expiry.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

var _ cache.Store = (*Store)(nil)

// New wraps an existing client. prefix namespaces every key and may be empty.
func New(rdb redis.UniversalClient, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Open connects to addr, which may be a redis:// URL or a bare host:port,
// and verifies the connection.
func Open(ctx context.Context, addr, prefix string) (*Store, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		opt = &redis.Options{Addr: addr}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return New(rdb, prefix), nil
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key []string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, s.Key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

// Set implements cache.Store.
func (s *Store) Set(ctx context.Context, key []string, value []byte) error {
	return s.rdb.Set(ctx, s.Key(key), value, 0).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Key renders key parts as a single Redis key. Parts are path-escaped so a
// ":" inside a part cannot collide with the separator.
func (s *Store) Key(key []string) string {
	parts := make([]string, 0, len(key)+1)
	if s.prefix != "" {
		parts = append(parts, escape(s.prefix))
	}
	for _, k := range key {
		parts = append(parts, escape(k))
	}
	return strings.Join(parts, ":")
}

func escape(part string) string {
	return strings.ReplaceAll(url.PathEscape(part), ":", "%3A")
}
