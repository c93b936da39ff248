/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleembed implements embedding.Embedder on Gemini embeddings.
package googleembed

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/prreport/retrieval/embedding"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-embedding-001"

// Embedder calls EmbedContent with one content per text.
type Embedder struct {
	client *genai.Client
	model  string
}

var _ embedding.Embedder = (*Embedder)(nil)

// New returns an Embedder. An empty model selects DefaultModel.
func New(client *genai.Client, model string) (*Embedder, error) {
	if client == nil {
		return nil, errors.New("genai client cannot be nil")
	}
	if model == "" {
		model = DefaultModel
	}
	return &Embedder{client: client, model: model}, nil
}

// Embed implements embedding.Embedder.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, embedding.Failure("gemini", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, embedding.Failure("gemini", fmt.Errorf("got %d vectors for %d texts", len(resp.Embeddings), len(texts)))
	}
	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		out[i] = emb.Values
	}
	return out, nil
}
