/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submitresult

import (
	"reflect"
	"strings"
)

const tagKey = "submitresult"

// OptionsForResponse reads tool options from a `submitresult` struct tag on
// any field of T, conventionally a blank one:
//
//	_ struct{} `submitresult:"name=Response,description=Always respond using this tool."`
func OptionsForResponse[T any]() Options[T] {
	var opts Options[T]
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return opts
	}
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get(tagKey)
		if tag == "" {
			continue
		}
		for part := range strings.SplitSeq(tag, ",") {
			key, value, _ := strings.Cut(strings.TrimSpace(part), "=")
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "name":
				opts.ToolName = strings.TrimSpace(value)
			case "description":
				opts.Description = strings.TrimSpace(value)
			}
		}
		break
	}
	return opts
}
