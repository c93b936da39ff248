/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submitresult

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"chainguard.dev/prreport/agents/schema"
	"chainguard.dev/prreport/agents/toolcall"
	"github.com/go-playground/validator/v10"
)

// ErrSchemaValidation marks a final answer that does not satisfy the
// result schema. It is never repaired or retried.
var ErrSchemaValidation = errors.New("schema validation failed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes the terminal call's arguments into Response and validates
// them. Every property the Response schema marks required must be present
// and non-null, and unknown fields are rejected.
func Parse[Response any](call toolcall.ToolCall) (Response, error) {
	var zero Response
	if len(bytes.TrimSpace(call.Arguments)) == 0 {
		return zero, fmt.Errorf("%w: %s call has no arguments", ErrSchemaValidation, call.Name)
	}

	var raw any
	if err := json.Unmarshal(call.Arguments, &raw); err != nil {
		return zero, fmt.Errorf("%w: decode %s arguments: %w", ErrSchemaValidation, call.Name, err)
	}
	if _, ok := raw.(map[string]any); !ok {
		return zero, fmt.Errorf("%w: %s arguments are not an object", ErrSchemaValidation, call.Name)
	}
	if err := checkRequired(schema.For[Response](), raw, ""); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrSchemaValidation, err)
	}

	dest := newDest[Response]()
	dec := json.NewDecoder(bytes.NewReader(call.Arguments))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return zero, fmt.Errorf("%w: decode %s arguments: %w", ErrSchemaValidation, call.Name, err)
	}
	if dec.More() {
		return zero, fmt.Errorf("%w: trailing data after %s arguments", ErrSchemaValidation, call.Name)
	}

	if err := validate.Struct(dest); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrSchemaValidation, err)
	}
	if reflect.TypeFor[Response]().Kind() == reflect.Pointer {
		return dest.(Response), nil
	}
	return reflect.ValueOf(dest).Elem().Interface().(Response), nil
}

// newDest allocates a value to decode Response into, returning a pointer
// to the underlying struct whether or not Response is itself a pointer.
func newDest[Response any]() any {
	typ := reflect.TypeFor[Response]()
	if typ.Kind() == reflect.Pointer {
		return reflect.New(typ.Elem()).Interface()
	}
	return reflect.New(typ).Interface()
}
