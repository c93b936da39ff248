/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"fmt"
	"slices"
	"strings"
)

// Registry is the fixed set of tools offered to the model during one run.
// It is built once and never modified, so concurrent runs may share it.
type Registry[Resp any] struct {
	tools    map[string]Tool[Resp]
	terminal string
}

// NewRegistry validates the tools and indexes them by name. Exactly one
// terminal tool is required, and every non-terminal tool needs a handler.
func NewRegistry[Resp any](tools ...Tool[Resp]) (*Registry[Resp], error) {
	r := &Registry[Resp]{tools: make(map[string]Tool[Resp], len(tools))}
	for _, t := range tools {
		name := t.Def.Name
		switch {
		case name == "":
			return nil, fmt.Errorf("tool definition has no name")
		case t.Def.Parameters == nil:
			return nil, fmt.Errorf("tool %q has no parameter schema", name)
		case t.Terminal && t.Handler != nil:
			return nil, fmt.Errorf("terminal tool %q must not have a handler", name)
		case !t.Terminal && t.Handler == nil:
			return nil, fmt.Errorf("tool %q has no handler", name)
		}
		if _, dup := r.tools[name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", name)
		}
		if t.Terminal {
			if r.terminal != "" {
				return nil, fmt.Errorf("multiple terminal tools: %q and %q", r.terminal, name)
			}
			r.terminal = name
		}
		r.tools[name] = t
	}
	if r.terminal == "" {
		return nil, fmt.Errorf("no terminal tool registered")
	}
	return r, nil
}

// Lookup returns the tool with the given name.
func (r *Registry[Resp]) Lookup(name string) (Tool[Resp], bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Terminal returns the name of the tool that ends a run.
func (r *Registry[Resp]) Terminal() string {
	return r.terminal
}

// Definitions lists every tool definition sorted by name, so providers send
// a stable tool list on every request.
func (r *Registry[Resp]) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Def)
	}
	slices.SortFunc(defs, func(a, b Definition) int {
		return strings.Compare(a.Name, b.Name)
	})
	return defs
}
