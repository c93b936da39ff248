/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiembed implements embedding.Embedder on the OpenAI embeddings API.
package openaiembed

import (
	"context"
	"fmt"

	"chainguard.dev/prreport/retrieval/embedding"
	"github.com/openai/openai-go"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.EmbeddingModelTextEmbedding3Small

// Embedder calls the embeddings endpoint once per Embed.
type Embedder struct {
	client openai.Client
	model  openai.EmbeddingModel
}

var _ embedding.Embedder = (*Embedder)(nil)

// New returns an Embedder. An empty model selects DefaultModel.
func New(client openai.Client, model string) *Embedder {
	m := openai.EmbeddingModel(model)
	if model == "" {
		m = DefaultModel
	}
	return &Embedder{client: client, model: m}
}

// Embed implements embedding.Embedder.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: e.model,
	})
	if err != nil {
		return nil, embedding.Failure("openai", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, embedding.Failure("openai", fmt.Errorf("got %d vectors for %d texts", len(resp.Data), len(texts)))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, embedding.Failure("openai", fmt.Errorf("vector index %d out of range", d.Index))
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}
