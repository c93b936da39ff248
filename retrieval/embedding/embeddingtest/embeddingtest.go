/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package embeddingtest provides a deterministic offline Embedder for tests.
package embeddingtest

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync/atomic"
	"unicode"

	"chainguard.dev/prreport/retrieval/embedding"
)

// Dimensions of the vectors produced by Embedder.
const Dimensions = 64

// Embedder hashes lower-cased words into a bag-of-words vector, so texts
// sharing words are close under cosine similarity.
type Embedder struct {
	// Err, when set, is returned (wrapped) by every call.
	Err   error
	calls atomic.Int64
}

var _ embedding.Embedder = (*Embedder)(nil)

// Embed implements embedding.Embedder.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.Err != nil {
		return nil, embedding.Failure("test", e.Err)
	}
	if err := ctx.Err(); err != nil {
		return nil, embedding.Failure("test", err)
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = Vector(t)
	}
	return out, nil
}

// Calls reports how many times Embed ran.
func (e *Embedder) Calls() int {
	return int(e.calls.Load())
}

// Vector returns the normalized embedding of text.
func Vector(text string) []float32 {
	vec := make([]float32, Dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%Dimensions]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
