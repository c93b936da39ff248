/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chunker

import (
	"errors"
	"fmt"
	"maps"

	"chainguard.dev/prreport/retrieval"
)

const (
	// DefaultSize is the maximum chunk length in runes.
	DefaultSize = 1000
	// DefaultOverlap is the number of runes shared by consecutive chunks.
	DefaultOverlap = 200
)

// ErrInvalidParameters is returned for a size or overlap that cannot work.
var ErrInvalidParameters = errors.New("invalid chunker parameters")

// separators in order of preference.
var separators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune("! "),
	[]rune("? "),
	[]rune(" "),
}

// Splitter cuts documents into overlapping chunks.
type Splitter struct {
	size, overlap int
}

// New returns a Splitter producing chunks of at most size runes, each
// sharing at least overlap runes with the previous one.
func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidParameters, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidParameters, size, overlap)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Default returns a Splitter with DefaultSize and DefaultOverlap.
func Default() *Splitter {
	return &Splitter{size: DefaultSize, overlap: DefaultOverlap}
}

// Split returns the chunks of text in document order. Every chunk carries a
// copy of metadata.
func (s *Splitter) Split(text string, metadata map[string]string) []retrieval.Chunk {
	runes := []rune(text)
	n := len(runes)
	var chunks []retrieval.Chunk
	for start := 0; start < n; {
		end := s.cut(runes, start)
		chunks = append(chunks, retrieval.Chunk{
			Text:         string(runes[start:end]),
			SourceOffset: start,
			Metadata:     maps.Clone(metadata),
		})
		if end == n {
			break
		}
		start = end - s.overlap
	}
	return chunks
}

// cut picks the end of the chunk starting at start.
func (s *Splitter) cut(runes []rune, start int) int {
	limit := start + s.size
	if limit >= len(runes) {
		return len(runes)
	}
	window := runes[start:limit]
	for _, sep := range separators {
		i := lastIndex(window, sep)
		if i < 0 {
			continue
		}
		end := start + i + len(sep)
		// Only split in the second half of the window, and only where the
		// next chunk still moves forward.
		if end-start > s.size/2 && end-s.overlap > start {
			return end
		}
	}
	return limit
}

func lastIndex(haystack, needle []rune) int {
outer:
	for i := len(haystack) - len(needle); i >= 0; i-- {
		for j, r := range needle {
			if haystack[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
