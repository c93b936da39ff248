/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the meter shared by every model provider.
const MeterName = "chainguard.dev/prreport"

// GenAI counts token usage, tool calls and run outcomes for model providers.
// Counters that fail to register fall back to no-ops.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
	runs             metric.Int64Counter
	enrich           AttributeEnricher
}

// NewGenAI registers the counters on the named meter. The model name is a
// dimension on every recorded point.
func NewGenAI(meterName string, opts ...Option) *GenAI {
	meter := otel.Meter(meterName)
	m := &GenAI{
		promptTokens:     counter(meter, "genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter(meter, "genai.token.completion", "The number of completion tokens used", "{tokens}"),
		toolCalls:        counter(meter, "genai.tool.calls", "The number of tool calls dispatched", "{calls}"),
		runs:             counter(meter, "genai.runs", "The number of orchestrator runs by outcome", "{runs}"),
		enrich:           SubjectEnricher,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Option configures a GenAI.
type Option func(*GenAI)

// WithEnricher replaces the default attribute enricher. nil disables enrichment.
func WithEnricher(e AttributeEnricher) Option {
	return func(m *GenAI) { m.enrich = e }
}

func counter(meter metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		clog.Warn("Failed to create counter, recording disabled", "counter", name, "error", err)
		return noop.Int64Counter{}
	}
	return c
}

func (m *GenAI) attrs(ctx context.Context, base ...attribute.KeyValue) metric.MeasurementOption {
	if m.enrich != nil {
		base = m.enrich(ctx, base)
	}
	return metric.WithAttributes(base...)
}

// RecordTokens records prompt and completion token usage for one model call.
func (m *GenAI) RecordTokens(ctx context.Context, model string, prompt, completion int64) {
	if m == nil {
		return
	}
	opt := m.attrs(ctx, attribute.String("model", model))
	m.promptTokens.Add(ctx, prompt, opt)
	m.completionTokens.Add(ctx, completion, opt)
}

// RecordToolCall counts one dispatched tool call.
func (m *GenAI) RecordToolCall(ctx context.Context, model, tool string) {
	if m == nil {
		return
	}
	m.toolCalls.Add(ctx, 1, m.attrs(ctx, attribute.String("model", model), attribute.String("tool", tool)))
}

// RecordRun counts one finished run. outcome is "ok" or an error kind.
func (m *GenAI) RecordRun(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, m.attrs(ctx, attribute.String("outcome", outcome)))
}
