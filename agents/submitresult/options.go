/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submitresult

import (
	"fmt"
	"reflect"

	"chainguard.dev/prreport/agents/schema"
	"chainguard.dev/prreport/agents/toolcall"
)

const (
	// DefaultToolName is the name of the terminal tool.
	DefaultToolName = "Response"
	// DefaultDescription tells the model how to finish.
	DefaultDescription = "Always respond to the user using this tool."
	// Acknowledgement answers a terminal call that was not first in its turn.
	Acknowledgement = "Received. Call this tool first, on its own, to submit the final answer."
)

// Options configures the terminal tool.
type Options[Response any] struct {
	ToolName    string
	Description string
	Generator   *schema.Generator
}

func (o *Options[Response]) setDefaults() {
	if o.ToolName == "" {
		o.ToolName = DefaultToolName
	}
	if o.Description == "" {
		o.Description = DefaultDescription
	}
	if o.Generator == nil {
		o.Generator = schema.NewGenerator()
	}
}

// Tool builds the terminal tool whose argument schema is the Response type.
// The arguments of a terminal call are the run's result; the tool itself
// is never dispatched.
func Tool[Response any](opts Options[Response]) (toolcall.Tool[Response], error) {
	opts.setDefaults()
	dest := newDest[Response]()
	if reflect.TypeOf(dest).Elem().Kind() != reflect.Struct {
		return toolcall.Tool[Response]{}, fmt.Errorf("result type %T is not a struct", dest)
	}
	s := opts.Generator.Reflect(dest)
	return toolcall.Tool[Response]{
		Def: toolcall.Definition{
			Name:        opts.ToolName,
			Description: opts.Description,
			Parameters:  s,
		},
		Terminal: true,
	}, nil
}

// ToolForResponse builds the terminal tool from the annotations on Response.
func ToolForResponse[Response any]() (toolcall.Tool[Response], error) {
	return Tool(OptionsForResponse[Response]())
}
