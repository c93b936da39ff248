/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas for tool arguments.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Generator wraps jsonschema.Reflector with the settings tool schemas need:
// inline definitions, required-ness from tags, and closed objects so the
// model sees exactly the fields the decoder accepts.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator returns a Generator with tool-schema defaults.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the schema of v.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	s := g.reflector.Reflect(v)
	// Tool parameter schemas are embedded, never standalone documents.
	s.Version = ""
	s.ID = ""
	return s
}

// For reflects the schema of T, dereferencing pointer types.
func For[T any]() *jsonschema.Schema {
	typ := reflect.TypeFor[T]()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return NewGenerator().Reflect(reflect.New(typ).Interface())
}

// Property describes one top-level argument of a hand-built object schema.
type Property struct {
	Name        string
	Type        string // "string", "integer", "number", "boolean"
	Description string
	Required    bool
}

// Object builds a closed object schema from a flat property list.
func Object(props ...Property) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	for _, p := range props {
		s.Properties.Set(p.Name, &jsonschema.Schema{
			Type:        p.Type,
			Description: p.Description,
		})
		if p.Required {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

// ToMap converts a schema into the generic map form most provider SDKs take.
func ToMap(s *jsonschema.Schema) (map[string]any, error) {
	if s == nil {
		return nil, fmt.Errorf("nil schema")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return out, nil
}
