/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"chainguard.dev/prreport/agents/agenttrace"
	"chainguard.dev/prreport/agents/conversation"
	"chainguard.dev/prreport/agents/model/modeltest"
	"chainguard.dev/prreport/agents/schema"
	"chainguard.dev/prreport/agents/submitresult"
	"chainguard.dev/prreport/agents/toolcall"
	"github.com/google/go-cmp/cmp"
)

type answer struct {
	Grade string `json:"grade" jsonschema:"required,enum=A,enum=B" validate:"required,oneof=A B"`
}

const lookupName = "lookup"

func newRegistry(t *testing.T, handler toolcall.Handler[*answer]) *toolcall.Registry[*answer] {
	t.Helper()
	submit, err := submitresult.Tool(submitresult.Options[*answer]{})
	if err != nil {
		t.Fatalf("submitresult.Tool: %v", err)
	}
	lookup := toolcall.Tool[*answer]{
		Def: toolcall.Definition{
			Name:        lookupName,
			Description: "Look up a passage.",
			Parameters:  schema.Object(schema.Property{Name: "query", Type: "string", Required: true}),
		},
		Handler: handler,
	}
	reg, err := toolcall.NewRegistry(submit, lookup)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func echoLookup(calls *int) toolcall.Handler[*answer] {
	return func(_ context.Context, call toolcall.ToolCall, _ *agenttrace.Trace[*answer]) (string, error) {
		*calls++
		args, err := call.Args()
		if err != nil {
			return "", err
		}
		q, err := toolcall.Param[string](args, "query")
		if err != nil {
			return "", err
		}
		return "passage about " + q, nil
	}
}

func newOrchestrator(t *testing.T, m *modeltest.Model, reg *toolcall.Registry[*answer], opts ...Option) *Orchestrator[*answer] {
	t.Helper()
	o, err := New(m, reg, "instructions", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}

func TestRunImmediateResponse(t *testing.T) {
	var lookups int
	m := modeltest.New(modeltest.Say("", modeltest.Call("c1", "Response", `{"grade":"A"}`)))
	var observed []State
	o := newOrchestrator(t, m, newRegistry(t, echoLookup(&lookups)),
		WithStepObserver(func(s State) { observed = append(observed, s) }))

	res, err := o.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Value.Grade != "A" {
		t.Errorf("grade: got = %q, wanted = %q", res.Value.Grade, "A")
	}
	want := []State{StateAgent, StateEnd}
	if diff := cmp.Diff(want, res.Steps); diff != "" {
		t.Errorf("steps (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, observed); diff != "" {
		t.Errorf("observed (-want +got):\n%s", diff)
	}
	if got := len(m.Invocations()); got != 1 {
		t.Errorf("model invocations: got = %d, wanted = 1", got)
	}
	if lookups != 0 {
		t.Errorf("lookups: got = %d, wanted = 0", lookups)
	}
	if got := res.Conversation.Len(); got != 3 {
		t.Errorf("conversation length: got = %d, wanted = 3", got)
	}
}

func TestRunToolLoop(t *testing.T) {
	var lookups int
	m := modeltest.New(
		modeltest.Say("", modeltest.Call("c1", lookupName, `{"query":"tone"}`)),
		modeltest.Say("", modeltest.Call("c2", "Response", `{"grade":"B"}`)),
	)
	o := newOrchestrator(t, m, newRegistry(t, echoLookup(&lookups)))

	res, err := o.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]State{StateAgent, StateTools, StateAgent, StateEnd}, res.Steps); diff != "" {
		t.Errorf("steps (-want +got):\n%s", diff)
	}
	if lookups != 1 {
		t.Errorf("lookups: got = %d, wanted = 1", lookups)
	}

	// The second invocation sees the tool result for c1.
	second := m.Invocations()[1]
	var results []conversation.Message
	for _, msg := range second.Messages() {
		if msg.Role == conversation.RoleTool {
			results = append(results, msg)
		}
	}
	want := []conversation.Message{conversation.ToolResult("c1", lookupName, "passage about tone")}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("tool results (-want +got):\n%s", diff)
	}
	if got := second.At(0); got.Role != conversation.RoleSystem || got.Content != "instructions" {
		t.Errorf("first message: got = %+v, wanted system instructions", got)
	}
	if got := len(m.Tools(0)); got != 2 {
		t.Errorf("tools offered: got = %d, wanted = 2", got)
	}
}

func TestRunAnswersEveryCallInOrder(t *testing.T) {
	var lookups int
	m := modeltest.New(
		modeltest.Say("",
			modeltest.Call("a", lookupName, `{"query":"one"}`),
			modeltest.Call("b", "Response", `{"grade":"A"}`),
			modeltest.Call("c", lookupName, `{"query":"two"}`),
		),
		modeltest.Say("", modeltest.Call("d", "Response", `{"grade":"B"}`)),
	)
	o := newOrchestrator(t, m, newRegistry(t, echoLookup(&lookups)))

	res, err := o.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// A terminal call that is not first does not end the run.
	if res.Value.Grade != "B" {
		t.Errorf("grade: got = %q, wanted = %q", res.Value.Grade, "B")
	}
	if lookups != 2 {
		t.Errorf("lookups: got = %d, wanted = 2", lookups)
	}

	var ids []string
	var ack string
	for _, msg := range res.Conversation.Messages() {
		if msg.Role == conversation.RoleTool {
			ids = append(ids, msg.ToolCallID)
			if msg.ToolCallID == "b" {
				ack = msg.Content
			}
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
		t.Errorf("tool result order (-want +got):\n%s", diff)
	}
	if ack != submitresult.Acknowledgement {
		t.Errorf("acknowledgement: got = %q, wanted = %q", ack, submitresult.Acknowledgement)
	}
}

func TestRunArgumentErrorIsReported(t *testing.T) {
	var lookups int
	m := modeltest.New(
		modeltest.Say("", modeltest.Call("c1", lookupName, `{}`)),
		modeltest.Say("", modeltest.Call("c2", "Response", `{"grade":"A"}`)),
	)
	o := newOrchestrator(t, m, newRegistry(t, echoLookup(&lookups)))

	res, err := o.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	msg := res.Conversation.At(3)
	if msg.Role != conversation.RoleTool || msg.ToolCallID != "c1" {
		t.Fatalf("message 3: got = %+v, wanted tool result c1", msg)
	}
	if msg.Content == "" {
		t.Error("argument error result: got empty content")
	}
}

func TestRunErrors(t *testing.T) {
	storeDown := errors.New("index unavailable")
	failing := func(context.Context, toolcall.ToolCall, *agenttrace.Trace[*answer]) (string, error) {
		return "", storeDown
	}

	tests := []struct {
		name    string
		script  []modeltest.Reply
		handler toolcall.Handler[*answer]
		opts    []Option
		want    error
	}{{
		name:   "model error",
		script: []modeltest.Reply{modeltest.Fail(errors.New("503"))},
		want:   ErrModelInvocation,
	}, {
		name:   "unknown tool",
		script: []modeltest.Reply{modeltest.Say("", modeltest.Call("c1", "browse", `{}`))},
		want:   ErrUnknownTool,
	}, {
		name:   "no tool call",
		script: []modeltest.Reply{modeltest.Say("Here is my report.")},
		want:   submitresult.ErrSchemaValidation,
	}, {
		name:   "invalid result",
		script: []modeltest.Reply{modeltest.Say("", modeltest.Call("c1", "Response", `{"grade":"F"}`))},
		want:   submitresult.ErrSchemaValidation,
	}, {
		name:    "tool failure",
		script:  []modeltest.Reply{modeltest.Say("", modeltest.Call("c1", lookupName, `{"query":"x"}`))},
		handler: failing,
		want:    storeDown,
	}, {
		name: "step budget",
		script: []modeltest.Reply{
			modeltest.Say("", modeltest.Call("c1", lookupName, `{"query":"x"}`)),
			modeltest.Say("", modeltest.Call("c2", lookupName, `{"query":"y"}`)),
			modeltest.Say("", modeltest.Call("c3", "Response", `{"grade":"A"}`)),
		},
		opts: []Option{WithMaxSteps(2)},
		want: ErrBudgetExhausted,
	}, {
		name:   "time budget",
		script: []modeltest.Reply{modeltest.Hang()},
		opts:   []Option{WithTimeout(20 * time.Millisecond)},
		want:   ErrBudgetExhausted,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lookups int
			handler := tt.handler
			if handler == nil {
				handler = echoLookup(&lookups)
			}
			o := newOrchestrator(t, modeltest.New(tt.script...), newRegistry(t, handler), tt.opts...)

			res, err := o.Run(context.Background(), "prompt")
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run: got err = %v, wanted %v", err, tt.want)
			}
			if res != nil {
				t.Errorf("Run: got result %+v, wanted nil", res)
			}
		})
	}
}

func TestRunParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := newOrchestrator(t, modeltest.New(modeltest.Hang()), newRegistry(t, echoLookup(new(int))))

	_, err := o.Run(ctx, "prompt")
	if errors.Is(err, ErrBudgetExhausted) {
		t.Errorf("Run: got budget error %v for caller cancellation", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run: got err = %v, wanted context.Canceled", err)
	}
}

func TestNewValidation(t *testing.T) {
	reg := newRegistry(t, echoLookup(new(int)))
	m := modeltest.New()

	if _, err := New[*answer](nil, reg, "x"); err == nil {
		t.Error("New(nil model): got nil error")
	}
	if _, err := New[*answer](m, nil, "x"); err == nil {
		t.Error("New(nil registry): got nil error")
	}
	for i, opt := range []Option{WithMaxSteps(0), WithTimeout(0), WithStepObserver(nil)} {
		if _, err := New(m, reg, "x", opt); err == nil {
			t.Errorf("option %d: got nil error", i)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: "ok"},
		{err: fmt.Errorf("x: %w", ErrBudgetExhausted), want: "budget_exhausted"},
		{err: ErrModelInvocation, want: "model_invocation"},
		{err: ErrUnknownTool, want: "unknown_tool"},
		{err: submitresult.ErrSchemaValidation, want: "schema_validation"},
		{err: errors.New("boom"), want: "tool_failure"},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v): got = %q, wanted = %q", tt.err, got, tt.want)
		}
	}
}
