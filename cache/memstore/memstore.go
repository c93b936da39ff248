/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package memstore is an in-process cache.Store backed by go-cache.
package memstore

import (
	"context"
	"strings"

	"chainguard.dev/prreport/cache"
	gocache "github.com/patrickmn/go-cache"
)

// Store keeps entries for the life of the process. Expiry is left to the
// cache decorator, which compares stored timestamps against its TTL.
type Store struct {
	c *gocache.Cache
}

var _ cache.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{c: gocache.New(gocache.NoExpiration, 0)}
}

// Get implements cache.Store.
func (s *Store) Get(_ context.Context, key []string) ([]byte, bool, error) {
	v, ok := s.c.Get(join(key))
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

// Set implements cache.Store.
func (s *Store) Set(_ context.Context, key []string, value []byte) error {
	s.c.Set(join(key), append([]byte(nil), value...), gocache.NoExpiration)
	return nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	return s.c.ItemCount()
}

// join separates parts with a NUL byte, which cannot collide with the
// printable key parts callers use.
func join(key []string) string {
	return strings.Join(key, "\x00")
}
