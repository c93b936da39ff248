/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package store defines the vector index the retrieval tool queries.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"chainguard.dev/prreport/retrieval"
	"chainguard.dev/prreport/retrieval/embedding"
)

// ErrIndexUnavailable is returned when querying an index with no chunks or
// one that cannot be reached.
var ErrIndexUnavailable = errors.New("retrieval index unavailable")

// Store indexes embedded chunks and answers nearest-neighbour queries.
// Implementations allow concurrent queries.
type Store interface {
	// Index adds chunks to the corpus.
	Index(ctx context.Context, chunks []retrieval.IndexedChunk) error
	// Query embeds text and returns the k most similar chunks, most
	// similar first.
	Query(ctx context.Context, text string, k int) ([]retrieval.Chunk, error)
}

// EmbedQuery embeds a query with e, making sure failures carry
// embedding.ErrEmbeddingFailure.
func EmbedQuery(ctx context.Context, e embedding.Embedder, text string) ([]float32, error) {
	vec, err := embedding.One(ctx, e, text)
	if err != nil {
		if errors.Is(err, embedding.ErrEmbeddingFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", embedding.ErrEmbeddingFailure, err)
	}
	return vec, nil
}

// ValidateK rejects non-positive result counts.
func ValidateK(k int) error {
	if k <= 0 {
		return fmt.Errorf("k must be positive, got %d", k)
	}
	return nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a
// zero vector or their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
