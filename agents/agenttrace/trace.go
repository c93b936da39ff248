/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentation = "chainguard.dev/prreport/agents/agenttrace"

// ToolCall records one tool execution inside a run.
type ToolCall[T any] struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Arguments string    `json:"arguments"`
	Result    string    `json:"result,omitempty"`
	Error     error     `json:"error,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	trace *Trace[T]
	span  oteltrace.Span
}

// Trace records one orchestrator run from prompt to result.
type Trace[T any] struct {
	ID          string         `json:"id"`
	InputPrompt string         `json:"input_prompt"`
	Subject     Subject        `json:"subject"`
	Steps       int            `json:"steps"`
	ToolCalls   []*ToolCall[T] `json:"tool_calls"`
	Result      T              `json:"result"`
	Error       error          `json:"error,omitempty"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`

	tracer Tracer[T]
	mu     sync.Mutex
	ctx    context.Context
	span   oteltrace.Span
}

func newTrace[T any](ctx context.Context, tracer Tracer[T], prompt string) *Trace[T] {
	subject := SubjectFromContext(ctx)

	attrs := []attribute.KeyValue{attribute.Int("agent.prompt_length", len(prompt))}
	if s := subject.String(); s != "" {
		attrs = append(attrs, attribute.String("pull_request", s))
	}
	ctx, span := otel.Tracer(instrumentation).Start(ctx, "agent.run", oteltrace.WithAttributes(attrs...))

	return &Trace[T]{
		ID:          newTraceID(),
		InputPrompt: prompt,
		Subject:     subject,
		StartTime:   time.Now(),
		tracer:      tracer,
		ctx:         ctx,
		span:        span,
	}
}

// Context returns the context carrying the run's span, for child operations.
func (t *Trace[T]) Context() context.Context {
	if t == nil || t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// RecordStep counts one model invocation.
func (t *Trace[T]) RecordStep() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Steps++
}

// StartToolCall opens a tool-call record. Complete adds it to the trace.
func (t *Trace[T]) StartToolCall(id, name, arguments string) *ToolCall[T] {
	tc := &ToolCall[T]{
		ID:        id,
		Name:      name,
		Arguments: arguments,
		StartTime: time.Now(),
		trace:     t,
	}
	if t != nil {
		_, tc.span = otel.Tracer(instrumentation).Start(t.Context(), "agent.tool_call", oteltrace.WithAttributes(
			attribute.String("tool.name", name),
			attribute.String("tool.id", id),
		))
	}
	return tc
}

// BadToolCall records a call that could not be executed at all.
func (t *Trace[T]) BadToolCall(id, name, arguments string, err error) {
	tc := t.StartToolCall(id, name, arguments)
	tc.Complete("", err)
}

// Complete closes the tool call and appends it to its trace.
func (tc *ToolCall[T]) Complete(result string, err error) {
	tc.Result = result
	tc.Error = err
	tc.EndTime = time.Now()
	endSpan(tc.span, err)

	if tc.trace == nil {
		return
	}
	tc.trace.mu.Lock()
	defer tc.trace.mu.Unlock()
	tc.trace.ToolCalls = append(tc.trace.ToolCalls, tc)
}

// Complete closes the trace and hands it to its tracer.
func (t *Trace[T]) Complete(result T, err error) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.Result = result
	t.Error = err
	t.EndTime = time.Now()
	if t.span != nil {
		t.span.SetAttributes(attribute.Int("agent.steps", t.Steps))
	}
	t.mu.Unlock()

	endSpan(t.span, err)
	if t.tracer != nil {
		t.tracer.RecordTrace(t)
	}
}

// Duration is the elapsed time of the run, so far if it is still going.
func (t *Trace[T]) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

// String renders a compact human-readable summary of the run.
func (t *Trace[T]) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s ===\n", t.ID)
	if s := t.Subject.String(); s != "" {
		fmt.Fprintf(&sb, "Pull request: %s\n", s)
	}
	fmt.Fprintf(&sb, "Prompt: %d chars, %d steps\n", len(t.InputPrompt), t.Steps)
	for i, tc := range t.ToolCalls {
		fmt.Fprintf(&sb, "  [%d] %s (ID: %s) %s\n", i+1, tc.Name, tc.ID, clip(tc.Arguments, 120))
		if tc.Error != nil {
			fmt.Fprintf(&sb, "      error: %v\n", tc.Error)
		}
	}
	if t.Error != nil {
		fmt.Fprintf(&sb, "Error: %v\n", t.Error)
	} else {
		fmt.Fprintf(&sb, "Result: %s\n", clip(fmt.Sprintf("%+v", t.Result), 300))
	}
	return sb.String()
}

func endSpan(span oteltrace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func newTraceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405.000000")
	}
	return time.Now().Format("20060102-150405") + "-" + hex.EncodeToString(b)
}
