/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/prreport/agents/agenttrace"
	"chainguard.dev/prreport/agents/conversation"
	"chainguard.dev/prreport/agents/metrics"
	"chainguard.dev/prreport/agents/model"
	"chainguard.dev/prreport/agents/submitresult"
	"chainguard.dev/prreport/agents/toolcall"
	"github.com/chainguard-dev/clog"
)

// State is a node of the run state machine.
type State string

const (
	StateAgent State = "AGENT"
	StateTools State = "TOOLS"
	StateEnd   State = "END"
)

var (
	// ErrModelInvocation wraps any error returned by the model.
	ErrModelInvocation = errors.New("model invocation failed")
	// ErrBudgetExhausted is returned when a run hits its step or time limit.
	ErrBudgetExhausted = errors.New("run budget exhausted")
	// ErrUnknownTool is returned when the model calls a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	errTimeout = errors.New("run timed out")
)

// Result is the outcome of a successful run.
type Result[T any] struct {
	Value        T
	Conversation conversation.Conversation
	Steps        []State
}

// Orchestrator drives a model through tool calls until it submits a result
// through the registry's terminal tool. It holds no per-run state, so one
// Orchestrator may serve concurrent runs.
type Orchestrator[T any] struct {
	model        model.Model
	registry     *toolcall.Registry[T]
	instructions string
	settings
}

// New returns an Orchestrator that seeds every run with instructions.
func New[T any](m model.Model, registry *toolcall.Registry[T], instructions string, opts ...Option) (*Orchestrator[T], error) {
	if m == nil {
		return nil, errors.New("model cannot be nil")
	}
	if registry == nil {
		return nil, errors.New("tool registry cannot be nil")
	}
	o := &Orchestrator[T]{
		model:        m,
		registry:     registry,
		instructions: instructions,
		settings: settings{
			maxSteps: DefaultMaxSteps,
			timeout:  DefaultTimeout,
			metrics:  metrics.NewGenAI(metrics.MeterName),
		},
	}
	for _, opt := range opts {
		if err := opt(&o.settings); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return o, nil
}

// Run executes one run for prompt. The conversation starts as
// [System(instructions), Human(prompt)] and grows by one AI message per
// AGENT step and one tool result per tool call.
func (o *Orchestrator[T]) Run(ctx context.Context, prompt string) (_ *Result[T], err error) {
	ctx, cancel := context.WithTimeoutCause(ctx, o.timeout, errTimeout)
	defer cancel()

	trace := agenttrace.StartTrace[T](ctx, prompt)
	r := &run[T]{
		Orchestrator: o,
		trace:        trace,
		res:          &Result[T]{Conversation: conversation.New(o.instructions, prompt)},
	}
	defer func() {
		trace.Complete(r.res.Value, err)
		o.metrics.RecordRun(ctx, outcome(err))
	}()

	if err := r.loop(trace.Context()); err != nil {
		return nil, err
	}
	return r.res, nil
}

type run[T any] struct {
	*Orchestrator[T]
	trace *agenttrace.Trace[T]
	res   *Result[T]
}

func (r *run[T]) enter(s State) {
	r.res.Steps = append(r.res.Steps, s)
	if r.observer != nil {
		r.observer(s)
	}
}

func (r *run[T]) loop(ctx context.Context) error {
	log := clog.FromContext(ctx)
	defs := r.registry.Definitions()

	for step := 0; ; step++ {
		if step >= r.maxSteps {
			log.With("steps", step).Warn("Agent exceeded its step budget")
			return fmt.Errorf("%w: %d model steps without a final answer", ErrBudgetExhausted, step)
		}
		if err := r.checkDeadline(ctx, nil); err != nil {
			return err
		}

		r.enter(StateAgent)
		r.trace.RecordStep()
		msg, err := r.model.Invoke(ctx, r.res.Conversation, defs)
		if err != nil {
			if err := r.checkDeadline(ctx, err); err != nil {
				return err
			}
			return fmt.Errorf("%w: %w", ErrModelInvocation, err)
		}
		msg.Role = conversation.RoleAI
		r.res.Conversation = r.res.Conversation.Append(msg)

		if len(msg.ToolCalls) == 0 {
			r.enter(StateEnd)
			return fmt.Errorf("%w: model answered without calling %s", submitresult.ErrSchemaValidation, r.registry.Terminal())
		}
		if first := msg.ToolCalls[0]; first.Name == r.registry.Terminal() {
			r.enter(StateEnd)
			r.metrics.RecordToolCall(ctx, r.model.Name(), first.Name)
			tc := r.trace.StartToolCall(first.ID, first.Name, string(first.Arguments))
			value, err := submitresult.Parse[T](first)
			tc.Complete("", err)
			if err != nil {
				return err
			}
			r.res.Value = value
			log.With("steps", step+1).Info("Agent submitted its result")
			return nil
		}

		r.enter(StateTools)
		if err := r.dispatch(ctx, msg.ToolCalls); err != nil {
			return err
		}
	}
}

// dispatch runs every call of one AI turn in order and appends exactly one
// tool result per call.
func (r *run[T]) dispatch(ctx context.Context, calls []toolcall.ToolCall) error {
	log := clog.FromContext(ctx)

	tools := make([]toolcall.Tool[T], len(calls))
	for i, call := range calls {
		tool, ok := r.registry.Lookup(call.Name)
		if !ok {
			r.trace.BadToolCall(call.ID, call.Name, string(call.Arguments), ErrUnknownTool)
			return fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
		}
		tools[i] = tool
	}

	results := make([]conversation.Message, 0, len(calls))
	for i, call := range calls {
		if tools[i].Terminal {
			// Only a leading terminal call ends the run.
			results = append(results, conversation.ToolResult(call.ID, call.Name, submitresult.Acknowledgement))
			continue
		}

		log.With("tool", call.Name).With("id", call.ID).Info("Executing tool call")
		r.metrics.RecordToolCall(ctx, r.model.Name(), call.Name)
		tc := r.trace.StartToolCall(call.ID, call.Name, string(call.Arguments))
		out, err := tools[i].Handler(ctx, call, r.trace)
		tc.Complete(out, err)

		switch {
		case err == nil:
		case errors.Is(err, toolcall.ErrArgument):
			// The model can correct its own arguments on the next step.
			out = "Error: " + err.Error()
		default:
			if err := r.checkDeadline(ctx, err); err != nil {
				return err
			}
			return fmt.Errorf("tool %q: %w", call.Name, err)
		}
		results = append(results, conversation.ToolResult(call.ID, call.Name, out))
	}
	r.res.Conversation = r.res.Conversation.Append(results...)
	return nil
}

// checkDeadline reports the run's own timeout as budget exhaustion.
func (r *run[T]) checkDeadline(ctx context.Context, cause error) error {
	if ctx.Err() == nil || !errors.Is(context.Cause(ctx), errTimeout) {
		return nil
	}
	clog.FromContext(ctx).With("timeout", r.timeout).Warn("Agent exceeded its time budget")
	if cause != nil {
		return fmt.Errorf("%w: timed out after %s: %w", ErrBudgetExhausted, r.timeout, cause)
	}
	return fmt.Errorf("%w: timed out after %s", ErrBudgetExhausted, r.timeout)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBudgetExhausted):
		return "budget_exhausted"
	case errors.Is(err, ErrModelInvocation):
		return "model_invocation"
	case errors.Is(err, ErrUnknownTool):
		return "unknown_tool"
	case errors.Is(err, submitresult.ErrSchemaValidation):
		return "schema_validation"
	}
	return "tool_failure"
}
