/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package embeddingtest

import (
	"context"
	"errors"
	"math"
	"testing"

	"chainguard.dev/prreport/retrieval/embedding"
)

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func TestVector(t *testing.T) {
	v := Vector("Use the right tone in your comments")
	if len(v) != Dimensions {
		t.Fatalf("dimensions: got = %d, wanted = %d", len(v), Dimensions)
	}
	if n := dot(v, v); math.Abs(n-1) > 1e-5 {
		t.Errorf("norm: got = %f, wanted = 1", n)
	}
	same := Vector("use THE right tone, in your comments!")
	if d := dot(v, same); math.Abs(d-1) > 1e-5 {
		t.Errorf("case and punctuation changed the vector: similarity %f", d)
	}
	if got := Vector("  "); dot(got, got) != 0 {
		t.Error("blank text: got non-zero vector")
	}
}

func TestEmbedder(t *testing.T) {
	e := &Embedder{}
	got, err := embedding.One(context.Background(), e, "hello")
	if err != nil {
		t.Fatalf("One: %v", err)
	}
	if len(got) != Dimensions {
		t.Errorf("dimensions: got = %d", len(got))
	}

	e.Err = errors.New("quota")
	if _, err := e.Embed(context.Background(), []string{"x"}); !errors.Is(err, embedding.ErrEmbeddingFailure) {
		t.Errorf("Embed: got err = %v, wanted ErrEmbeddingFailure", err)
	}
	if e.Calls() != 2 {
		t.Errorf("calls: got = %d, wanted = 2", e.Calls())
	}
}
