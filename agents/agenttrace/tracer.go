/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Tracer creates traces and receives them once complete.
type Tracer[T any] interface {
	NewTrace(ctx context.Context, prompt string) *Trace[T]
	RecordTrace(trace *Trace[T])
}

type tracerKey[T any] struct{}

// WithTracer installs tracer on ctx for runs producing T.
func WithTracer[T any](ctx context.Context, tracer Tracer[T]) context.Context {
	return context.WithValue(ctx, tracerKey[T]{}, tracer)
}

// TracerFromContext returns the installed tracer, or the logging default.
func TracerFromContext[T any](ctx context.Context) Tracer[T] {
	if tracer, ok := ctx.Value(tracerKey[T]{}).(Tracer[T]); ok {
		return tracer
	}
	return NewDefaultTracer[T](ctx)
}

// StartTrace starts a trace with the tracer installed on ctx.
func StartTrace[T any](ctx context.Context, prompt string) *Trace[T] {
	return TracerFromContext[T](ctx).NewTrace(ctx, prompt)
}

// TraceCallback receives completed traces.
type TraceCallback[T any] func(*Trace[T])

type byCode[T any] struct {
	callbacks []TraceCallback[T]
}

// ByCode returns a Tracer that hands every completed trace to callbacks,
// running them in parallel and waiting for all of them.
func ByCode[T any](callbacks ...TraceCallback[T]) Tracer[T] {
	return &byCode[T]{callbacks: callbacks}
}

func (b *byCode[T]) NewTrace(ctx context.Context, prompt string) *Trace[T] {
	return newTrace[T](ctx, b, prompt)
}

func (b *byCode[T]) RecordTrace(trace *Trace[T]) {
	var g errgroup.Group
	for _, cb := range b.callbacks {
		if cb == nil {
			continue
		}
		g.Go(func() error {
			cb(trace)
			return nil
		})
	}
	_ = g.Wait()
}
