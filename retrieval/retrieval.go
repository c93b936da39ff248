/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retrieval holds the types shared by the chunker, the embedders
// and the vector stores that ground the agent in its reference corpus.
package retrieval

import "maps"

// Chunk is a contiguous span of a reference document.
type Chunk struct {
	Text string `json:"text"`
	// SourceOffset is the rune offset of Text within the source document.
	SourceOffset int               `json:"source_offset"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// IndexedChunk is a Chunk with its embedding, ready to be indexed.
type IndexedChunk struct {
	Chunk
	Embedding []float32 `json:"embedding"`
}

// Clone returns a deep copy of c.
func (c Chunk) Clone() Chunk {
	c.Metadata = maps.Clone(c.Metadata)
	return c
}
