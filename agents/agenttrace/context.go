/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// Subject identifies the pull request a run is reviewing.
type Subject struct {
	Owner  string `json:"owner,omitempty"`
	Repo   string `json:"repo,omitempty"`
	Number int    `json:"number,omitempty"`
}

// String renders the subject as "owner/repo#number", or "" when unset.
func (s Subject) String() string {
	if s.Owner == "" || s.Repo == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s#%d", s.Owner, s.Repo, s.Number)
}

// Repository returns "owner/repo", or "" when unset.
func (s Subject) Repository() string {
	if s.Owner == "" || s.Repo == "" {
		return ""
	}
	return s.Owner + "/" + s.Repo
}

// EnrichAttributes appends bounded-cardinality attributes for metrics.
// The pull request number is left out; every PR would create a new series.
func (s Subject) EnrichAttributes(base []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(base), len(base)+1)
	copy(attrs, base)
	if repo := s.Repository(); repo != "" {
		attrs = append(attrs, attribute.String("repository", repo))
	}
	return attrs
}

type subjectKey struct{}

// WithSubject records the pull request under review on ctx.
func WithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// SubjectFromContext returns the subject recorded on ctx, if any.
func SubjectFromContext(ctx context.Context) Subject {
	s, _ := ctx.Value(subjectKey{}).(Subject)
	return s
}
