/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package memstore is an in-memory store.Store using exact cosine search.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"chainguard.dev/prreport/retrieval"
	"chainguard.dev/prreport/retrieval/embedding"
	"chainguard.dev/prreport/retrieval/store"
)

// Store holds the corpus in memory. Queries scan every chunk.
type Store struct {
	embedder embedding.Embedder

	mu     sync.RWMutex
	chunks []retrieval.IndexedChunk
	dims   int
}

var _ store.Store = (*Store)(nil)

// New returns an empty Store that embeds queries with e.
func New(e embedding.Embedder) *Store {
	return &Store{embedder: e}
}

// Index implements store.Store. All embeddings must share one dimension.
func (s *Store) Index(_ context.Context, chunks []retrieval.IndexedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dims := s.dims
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %d has no embedding", i)
		}
		if dims == 0 {
			dims = len(c.Embedding)
		}
		if len(c.Embedding) != dims {
			return fmt.Errorf("chunk %d has %d dimensions, index has %d", i, len(c.Embedding), dims)
		}
	}
	for _, c := range chunks {
		c.Chunk = c.Chunk.Clone()
		c.Embedding = slices.Clone(c.Embedding)
		s.chunks = append(s.chunks, c)
	}
	s.dims = dims
	return nil
}

// Query implements store.Store.
func (s *Store) Query(ctx context.Context, text string, k int) ([]retrieval.Chunk, error) {
	if err := store.ValidateK(k); err != nil {
		return nil, err
	}
	s.mu.RLock()
	empty := len(s.chunks) == 0
	s.mu.RUnlock()
	if empty {
		return nil, store.ErrIndexUnavailable
	}

	vec, err := store.EmbedQuery(ctx, s.embedder, text)
	if err != nil {
		return nil, err
	}

	type scored struct {
		idx   int
		score float64
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]scored, len(s.chunks))
	for i, c := range s.chunks {
		results[i] = scored{idx: i, score: store.Cosine(vec, c.Embedding)}
	}
	// Ties keep index order so results are deterministic.
	slices.SortStableFunc(results, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]retrieval.Chunk, 0, min(k, len(results)))
	for _, r := range results[:min(k, len(results))] {
		out = append(out, s.chunks[r.idx].Chunk.Clone())
	}
	return out, nil
}

// Len reports the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
