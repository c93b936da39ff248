/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package embedding turns text into vectors for similarity search.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmbeddingFailure wraps every error an Embedder returns.
var ErrEmbeddingFailure = errors.New("embedding failed")

// Embedder maps texts to vectors of a fixed dimension. The i-th vector
// belongs to the i-th text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// One embeds a single text.
func One(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for 1 text", ErrEmbeddingFailure, len(vecs))
	}
	return vecs[0], nil
}

// Failure wraps err as an ErrEmbeddingFailure, annotated with the provider.
func Failure(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrEmbeddingFailure, provider, err)
}
