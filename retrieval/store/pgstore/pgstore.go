/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pgstore is a store.Store backed by PostgreSQL with pgvector.
package pgstore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"chainguard.dev/prreport/retrieval"
	"chainguard.dev/prreport/retrieval/embedding"
	"chainguard.dev/prreport/retrieval/store"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultTable holds the corpus chunks unless WithTable says otherwise.
const DefaultTable = "corpus_chunks"

const batchSize = 100

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

type chunkRow struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Text         string            `gorm:"type:text;not null"`
	SourceOffset int               `gorm:"not null"`
	Metadata     map[string]string `gorm:"serializer:json;type:jsonb"`
	Embedding    pgvector.Vector
	CreatedAt    time.Time
}

// Store keeps chunks in a pgvector table and queries it by cosine distance.
type Store struct {
	db       *gorm.DB
	embedder embedding.Embedder
	table    string
	dims     int
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithTable overrides DefaultTable.
func WithTable(name string) Option {
	return func(s *Store) error {
		if !identifier.MatchString(name) {
			return fmt.Errorf("invalid table name %q", name)
		}
		s.table = name
		return nil
	}
}

// New wraps an open database. Call Migrate before the first Index.
func New(db *gorm.DB, e embedding.Embedder, dims int, opts ...Option) (*Store, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dims)
	}
	s := &Store{db: db, embedder: e, table: DefaultTable, dims: dims}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Open connects to dsn, migrates the schema, and returns the Store.
func Open(ctx context.Context, dsn string, e embedding.Embedder, dims int, opts ...Option) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting: %w", store.ErrIndexUnavailable, err)
	}
	s, err := New(db, e, dims, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the vector extension, the chunk table, and its HNSW index.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY,
			text text NOT NULL,
			source_offset integer NOT NULL,
			metadata jsonb,
			embedding vector(%d) NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, s.table, s.dims),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`, s.table, s.table),
	}
	db := s.db.WithContext(ctx)
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrating %s: %w", s.table, err)
		}
	}
	clog.FromContext(ctx).Debug("Migrated corpus table", "table", s.table, "dimensions", s.dims)
	return nil
}

// Index implements store.Store.
func (s *Store) Index(ctx context.Context, chunks []retrieval.IndexedChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]chunkRow, len(chunks))
	for i, c := range chunks {
		if len(c.Embedding) != s.dims {
			return fmt.Errorf("chunk %d has %d dimensions, table has %d", i, len(c.Embedding), s.dims)
		}
		rows[i] = chunkRow{
			ID:           uuid.New(),
			Text:         c.Text,
			SourceOffset: c.SourceOffset,
			Metadata:     c.Metadata,
			Embedding:    pgvector.NewVector(c.Embedding),
		}
	}
	if err := s.db.WithContext(ctx).Table(s.table).CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("indexing %d chunks: %w", len(rows), err)
	}
	return nil
}

// Query implements store.Store. An empty table reports ErrIndexUnavailable
// without embedding the query.
func (s *Store) Query(ctx context.Context, text string, k int) ([]retrieval.Chunk, error) {
	if err := store.ValidateK(k); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Table(s.table).Limit(1).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrIndexUnavailable, err)
	}
	if len(ids) == 0 {
		return nil, store.ErrIndexUnavailable
	}

	vec, err := store.EmbedQuery(ctx, s.embedder, text)
	if err != nil {
		return nil, err
	}
	if len(vec) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, table has %d", embedding.ErrEmbeddingFailure, len(vec), s.dims)
	}

	var rows []chunkRow
	err = s.db.WithContext(ctx).
		Table(s.table).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(vec))).
		Order("created_at").
		Limit(k).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrIndexUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrIndexUnavailable
	}

	out := make([]retrieval.Chunk, len(rows))
	for i, r := range rows {
		out[i] = retrieval.Chunk{Text: r.Text, SourceOffset: r.SourceOffset, Metadata: r.Metadata}
	}
	return out, nil
}

// Count returns the number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(s.table).Count(&n).Error
	return n, err
}

// Reset removes every chunk, for rebuilding the corpus from scratch.
func (s *Store) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec(fmt.Sprintf("TRUNCATE TABLE %s", s.table)).Error
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
