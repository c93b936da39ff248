/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// NewDefaultTracer logs each completed trace through the logger on ctx.
func NewDefaultTracer[T any](ctx context.Context) Tracer[T] {
	log := clog.FromContext(ctx)
	return ByCode(func(trace *Trace[T]) {
		entry := log.With(
			"trace_id", trace.ID,
			"pull_request", trace.Subject.String(),
			"steps", trace.Steps,
			"tool_calls", len(trace.ToolCalls),
			"duration_ms", trace.Duration().Milliseconds(),
		)
		if trace.Error != nil {
			entry.Warn("Agent run failed", "error", trace.Error)
			return
		}
		entry.Debug("Agent run completed", "trace", trace.String())
	})
}
