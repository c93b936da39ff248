/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package corpus loads a reference document into a retrieval store.
package corpus

import (
	"context"
	"fmt"

	"chainguard.dev/prreport/retrieval"
	"chainguard.dev/prreport/retrieval/chunker"
	"chainguard.dev/prreport/retrieval/embedding"
	"chainguard.dev/prreport/retrieval/store"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the number of chunks embedded per request.
	DefaultBatchSize = 64
	// DefaultConcurrency bounds the embedding requests in flight.
	DefaultConcurrency = 4
)

// Option configures Build.
type Option func(*settings) error

type settings struct {
	batchSize   int
	concurrency int
	metadata    map[string]string
}

// WithBatchSize overrides DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(s *settings) error {
		if n <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", n)
		}
		s.batchSize = n
		return nil
	}
}

// WithConcurrency overrides DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(s *settings) error {
		if n <= 0 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		s.concurrency = n
		return nil
	}
}

// WithMetadata attaches md (e.g. the source file name) to every chunk.
func WithMetadata(md map[string]string) Option {
	return func(s *settings) error {
		s.metadata = md
		return nil
	}
}

// Build splits text, embeds every chunk, and indexes them into st in
// document order. It returns the number of chunks indexed. Nothing is
// indexed unless every batch embeds successfully.
func Build(ctx context.Context, text string, sp *chunker.Splitter, e embedding.Embedder, st store.Store, opts ...Option) (int, error) {
	s := settings{batchSize: DefaultBatchSize, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return 0, err
		}
	}
	log := clog.FromContext(ctx)

	chunks := sp.Split(text, s.metadata)
	if len(chunks) == 0 {
		return 0, nil
	}

	indexed := make([]retrieval.IndexedChunk, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		g.Go(func() error {
			texts := make([]string, end-start)
			for i, c := range chunks[start:end] {
				texts[i] = c.Text
			}
			vecs, err := e.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embedding chunks %d-%d: %w", start, end, err)
			}
			if len(vecs) != len(texts) {
				return fmt.Errorf("%w: got %d vectors for %d chunks", embedding.ErrEmbeddingFailure, len(vecs), len(texts))
			}
			for i, v := range vecs {
				indexed[start+i] = retrieval.IndexedChunk{Chunk: chunks[start+i], Embedding: v}
			}
			log.Debugf("Embedded chunks %d-%d of %d", start, end, len(chunks))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := st.Index(ctx, indexed); err != nil {
		return 0, fmt.Errorf("indexing corpus: %w", err)
	}
	log.With("chunks", len(indexed)).Info("Indexed corpus")
	return len(indexed), nil
}
