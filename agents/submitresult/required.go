/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submitresult

import (
	"fmt"
	"maps"
	"slices"

	"github.com/invopop/jsonschema"
)

// checkRequired walks decoded JSON against s and reports the first
// required property that is absent or null, at any depth. Decoding into Go
// values cannot tell a missing bool from false, so presence is checked on
// the raw arguments.
func checkRequired(s *jsonschema.Schema, v any, path string) error {
	if s == nil || v == nil {
		return nil
	}
	switch v := v.(type) {
	case map[string]any:
		for _, name := range s.Required {
			field, ok := v[name]
			switch {
			case !ok:
				return fmt.Errorf("%s is required", join(path, name))
			case field == nil:
				return fmt.Errorf("%s must not be null", join(path, name))
			}
		}
		if s.Properties == nil {
			return nil
		}
		for _, name := range slices.Sorted(maps.Keys(v)) {
			prop, ok := s.Properties.Get(name)
			if !ok {
				continue
			}
			if err := checkRequired(prop, v[name], join(path, name)); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range v {
			if err := checkRequired(s.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
