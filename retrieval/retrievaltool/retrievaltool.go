/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retrievaltool exposes the review-practices corpus to the agent as
// a callable tool.
package retrievaltool

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/prreport/agents/agenttrace"
	"chainguard.dev/prreport/agents/schema"
	"chainguard.dev/prreport/agents/toolcall"
	"chainguard.dev/prreport/retrieval/store"
	"github.com/chainguard-dev/clog"
)

const (
	// Name is the tool name the model calls.
	Name = "retrieve_pull_requests_code_review"

	// DefaultK is the number of chunks returned per query.
	DefaultK = 4

	separator = "\n\n"
)

// Description tells the model what the corpus covers so it can decide when
// to consult it.
const Description = `A book containing good practice for pull requests and code review.
Here is its outline:
  - Create your PR before the code is ready for review
  - Make people want to review your PR
  - Be your PR’s first reviewer
  - Assign the right reviewers to your PR
  - Be responsive to comments
  - If you want people to review your PRs, you have to review theirs
  - You can review code even if you are a junior developer
  - Check the right things during code review
  - Use the right tone in your comments
  - Be clear about whether a change is required for you to approve the PR or not
  - Review your review before submitting it
  - Approve the PR when the submitter made all the changes you asked
  - Some conflicts can’t be solved in comments`

// Option configures the tool.
type Option func(*settings) error

type settings struct {
	k int
}

// WithK overrides DefaultK.
func WithK(k int) Option {
	return func(s *settings) error {
		if err := store.ValidateK(k); err != nil {
			return err
		}
		s.k = k
		return nil
	}
}

// New returns the retrieval tool backed by st.
func New[Resp any](st store.Store, opts ...Option) (toolcall.Tool[Resp], error) {
	s := settings{k: DefaultK}
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return toolcall.Tool[Resp]{}, err
		}
	}
	if st == nil {
		return toolcall.Tool[Resp]{}, fmt.Errorf("retrieval tool needs a store")
	}

	return toolcall.Tool[Resp]{
		Def: toolcall.Definition{
			Name:        Name,
			Description: Description,
			Parameters: schema.Object(schema.Property{
				Name:        "query",
				Type:        "string",
				Description: "What to look up in the book.",
				Required:    true,
			}),
		},
		Handler: func(ctx context.Context, call toolcall.ToolCall, _ *agenttrace.Trace[Resp]) (string, error) {
			args, err := call.Args()
			if err != nil {
				return "", fmt.Errorf("%w: %w", toolcall.ErrArgument, err)
			}
			query, err := toolcall.Param[string](args, "query")
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(query) == "" {
				return "", fmt.Errorf("%w: query must not be empty", toolcall.ErrArgument)
			}

			chunks, err := st.Query(ctx, query, s.k)
			if err != nil {
				return "", fmt.Errorf("querying corpus: %w", err)
			}
			clog.FromContext(ctx).With("query", query).With("chunks", len(chunks)).Debug("Retrieved corpus chunks")

			texts := make([]string, len(chunks))
			for i, c := range chunks {
				texts[i] = c.Text
			}
			return strings.Join(texts, separator), nil
		},
	}, nil
}
