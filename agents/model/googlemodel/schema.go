/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlemodel

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// schemaToGenai converts a JSON schema into Gemini's OpenAPI subset.
// Keywords Gemini does not understand, such as additionalProperties, are dropped.
func schemaToGenai(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Title:       s.Title,
		Format:      s.Format,
		Pattern:     s.Pattern,
		Required:    append([]string(nil), s.Required...),
		MinItems:    toInt64(s.MinItems),
		MaxItems:    toInt64(s.MaxItems),
		MinLength:   toInt64(s.MinLength),
		MaxLength:   toInt64(s.MaxLength),
	}
	for _, v := range s.Enum {
		out.Enum = append(out.Enum, fmt.Sprint(v))
	}
	if s.Properties != nil {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = schemaToGenai(pair.Value)
			out.PropertyOrdering = append(out.PropertyOrdering, pair.Key)
		}
	}
	if s.Items != nil {
		out.Items = schemaToGenai(s.Items)
	}
	for _, child := range s.AnyOf {
		out.AnyOf = append(out.AnyOf, schemaToGenai(child))
	}
	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	case "null":
		return genai.TypeNULL
	}
	return ""
}

func toInt64(v *uint64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
