/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package chunker

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"chainguard.dev/prreport/retrieval"
	"github.com/google/go-cmp/cmp"
)

// reassemble drops each chunk's overlap with its predecessor.
func reassemble(chunks []retrieval.Chunk) string {
	var sb strings.Builder
	end := 0
	for _, c := range chunks {
		runes := []rune(c.Text)
		sb.WriteString(string(runes[end-c.SourceOffset:]))
		end = c.SourceOffset + len(runes)
	}
	return sb.String()
}

func sampleText() string {
	var sb strings.Builder
	for i := range 40 {
		sb.WriteString("Be your PR's first reviewer. Read the diff before anyone else does! ")
		if i%3 == 0 {
			sb.WriteString("\n")
		}
		if i%7 == 0 {
			sb.WriteString("\n\nCheck the right things during code review ")
		}
		sb.WriteString("Ünïcödé ✓ ")
	}
	return sb.String()
}

func TestSplitProperties(t *testing.T) {
	texts := map[string]string{
		"prose":       sampleText(),
		"no spaces":   strings.Repeat("x", 2345),
		"single char": "a",
		"short":       "A short note.",
		"multibyte":   strings.Repeat("日本語のテキスト。", 300),
	}
	params := []struct{ size, overlap int }{
		{DefaultSize, DefaultOverlap},
		{100, 0},
		{100, 99},
		{10, 3},
		{1, 0},
	}

	for name, text := range texts {
		for _, p := range params {
			s, err := New(p.size, p.overlap)
			if err != nil {
				t.Fatalf("New(%d, %d): %v", p.size, p.overlap, err)
			}
			chunks := s.Split(text, nil)

			if got := reassemble(chunks); got != text {
				t.Errorf("%s size=%d overlap=%d: round trip mismatch", name, p.size, p.overlap)
			}
			for i, c := range chunks {
				if n := utf8.RuneCountInString(c.Text); n > p.size || n == 0 {
					t.Errorf("%s size=%d: chunk %d has %d runes", name, p.size, i, n)
				}
				if i == 0 {
					continue
				}
				prev := chunks[i-1]
				prevEnd := prev.SourceOffset + utf8.RuneCountInString(prev.Text)
				if overlap := prevEnd - c.SourceOffset; overlap != p.overlap {
					t.Errorf("%s size=%d: chunk %d overlap = %d, wanted %d", name, p.size, i, overlap, p.overlap)
				}
				if c.SourceOffset <= prev.SourceOffset {
					t.Errorf("%s size=%d: chunk %d does not advance", name, p.size, i)
				}
			}
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := sampleText()
	a := Default().Split(text, map[string]string{"source": "book"})
	b := Default().Split(text, map[string]string{"source": "book"})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Split not deterministic (-a +b):\n%s", diff)
	}
}

func TestSplitPrefersBoundaries(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{{
		name: "paragraph over line",
		text: "aaaaaaa\nbbbbbbbbb\n\ncccccccccccccccc",
		want: "aaaaaaa\nbbbbbbbbb\n\n",
	}, {
		name: "line over sentence",
		text: "aaaaa. bbbbbbbbbbbb\ncc. cccccccccccccc",
		want: "aaaaa. bbbbbbbbbbbb\n",
	}, {
		name: "sentence over space",
		text: "aaaa aaaaaaaaaaa! bb bbbbbbbbbbbbbbbbbb",
		want: "aaaa aaaaaaaaaaa! ",
	}, {
		name: "boundary in first half ignored",
		text: "a\n\n" + strings.Repeat("b", 40),
		want: "a\n\n" + strings.Repeat("b", 17),
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(20, 0)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			chunks := s.Split(tt.text, nil)
			if len(chunks) == 0 {
				t.Fatal("Split: got no chunks")
			}
			if got := chunks[0].Text; got != tt.want {
				t.Errorf("first chunk: got = %q, wanted = %q", got, tt.want)
			}
		})
	}
}

func TestSplitOffsetsAreRunes(t *testing.T) {
	s, err := New(4, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	chunks := s.Split(strings.Repeat("é", 8), nil)
	want := []int{0, 3, 6}
	var got []int
	for _, c := range chunks {
		got = append(got, c.SourceOffset)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("offsets (-want +got):\n%s", diff)
	}
}

func TestSplitMetadataIsCopied(t *testing.T) {
	meta := map[string]string{"source": "book"}
	chunks := Default().Split(strings.Repeat("word ", 500), meta)
	chunks[0].Metadata["source"] = "changed"
	if meta["source"] != "book" || chunks[1].Metadata["source"] != "book" {
		t.Error("chunk metadata aliases the caller's map")
	}
}

func TestSplitEmpty(t *testing.T) {
	if got := Default().Split("", nil); len(got) != 0 {
		t.Errorf("Split(\"\"): got %d chunks, wanted 0", len(got))
	}
}

func TestNewInvalid(t *testing.T) {
	for _, p := range []struct{ size, overlap int }{{0, 0}, {-1, 0}, {10, 10}, {10, -1}, {10, 11}} {
		if _, err := New(p.size, p.overlap); !errors.Is(err, ErrInvalidParameters) {
			t.Errorf("New(%d, %d): got err = %v, wanted ErrInvalidParameters", p.size, p.overlap, err)
		}
	}
}
