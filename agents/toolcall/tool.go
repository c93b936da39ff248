/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chainguard.dev/prreport/agents/agenttrace"
	"github.com/invopop/jsonschema"
)

// ToolCall is a provider-independent request from the model to run a tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Args decodes the call's arguments as a JSON object.
func (c ToolCall) Args() (map[string]any, error) {
	if len(c.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(c.Arguments, &args); err != nil {
		return nil, fmt.Errorf("tool %q arguments are not a JSON object: %w", c.Name, err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// Definition describes a tool to the model.
type Definition struct {
	Name        string
	Description string
	// Parameters is the JSON schema of the arguments object.
	Parameters *jsonschema.Schema
}

// Handler executes a non-terminal tool and returns the text handed back to
// the model as the tool result. A returned error aborts the run.
type Handler[Resp any] func(ctx context.Context, call ToolCall, trace *agenttrace.Trace[Resp]) (string, error)

// Tool pairs a definition with its behaviour. Terminal tools carry no
// handler; calling them ends the run and their arguments become the result.
type Tool[Resp any] struct {
	Def      Definition
	Handler  Handler[Resp]
	Terminal bool
}

// ErrArgument marks a tool call whose arguments do not satisfy the tool.
var ErrArgument = errors.New("invalid tool arguments")

// Param extracts a required argument, converting JSON numbers to Go integer
// types where asked.
func Param[T any](args map[string]any, name string) (T, error) {
	var zero T
	raw, ok := args[name]
	if !ok {
		return zero, fmt.Errorf("%w: %s is required", ErrArgument, name)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}
	if v, ok := fromFloat[T](raw); ok {
		return v, nil
	}
	return zero, fmt.Errorf("%w: %s must be of type %T, got %T", ErrArgument, name, zero, raw)
}

// OptionalParam extracts an argument, returning fallback when it is absent.
func OptionalParam[T any](args map[string]any, name string, fallback T) (T, error) {
	if _, ok := args[name]; !ok {
		return fallback, nil
	}
	return Param[T](args, name)
}

func fromFloat[T any](raw any) (T, bool) {
	var zero T
	f, ok := raw.(float64)
	if !ok {
		return zero, false
	}
	switch any(zero).(type) {
	case int:
		return any(int(f)).(T), true
	case int32:
		return any(int32(f)).(T), true
	case int64:
		return any(int64(f)).(T), true
	}
	return zero, false
}
