/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submitresult

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/prreport/agents/toolcall"
	"github.com/google/go-cmp/cmp"
)

type verdict struct {
	Grade   string   `json:"grade" jsonschema:"required,enum=A,enum=B" validate:"required,oneof=A B"`
	Reasons []string `json:"reasons" jsonschema:"required" validate:"required"`
}

func TestTool(t *testing.T) {
	tool, err := Tool(Options[*verdict]{})
	if err != nil {
		t.Fatalf("Tool: %v", err)
	}
	if !tool.Terminal {
		t.Error("Terminal: got = false, wanted = true")
	}
	if tool.Handler != nil {
		t.Error("Handler: got non-nil, wanted nil")
	}
	if tool.Def.Name != DefaultToolName || tool.Def.Description != DefaultDescription {
		t.Errorf("definition: got = (%q, %q)", tool.Def.Name, tool.Def.Description)
	}
	if diff := cmp.Diff([]string{"grade", "reasons"}, tool.Def.Parameters.Required); diff != "" {
		t.Errorf("required (-want +got):\n%s", diff)
	}
	grade, ok := tool.Def.Parameters.Properties.Get("grade")
	if !ok {
		t.Fatal("grade property missing")
	}
	if diff := cmp.Diff([]any{"A", "B"}, grade.Enum); diff != "" {
		t.Errorf("grade enum (-want +got):\n%s", diff)
	}
}

func TestToolRejectsNonObject(t *testing.T) {
	if _, err := Tool(Options[string]{}); err == nil {
		t.Error("Tool[string]: got nil error, wanted error")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    *verdict
		wantErr bool
	}{{
		name: "valid",
		args: `{"grade":"A","reasons":["clear"]}`,
		want: &verdict{Grade: "A", Reasons: []string{"clear"}},
	}, {
		name:    "empty arguments",
		args:    ``,
		wantErr: true,
	}, {
		name:    "unknown field",
		args:    `{"grade":"A","reasons":[],"extra":1}`,
		wantErr: true,
	}, {
		name:    "enum violation",
		args:    `{"grade":"Z","reasons":["x"]}`,
		wantErr: true,
	}, {
		name:    "missing required",
		args:    `{"reasons":["x"]}`,
		wantErr: true,
	}, {
		name:    "wrong type",
		args:    `{"grade":1,"reasons":["x"]}`,
		wantErr: true,
	}, {
		name:    "not json",
		args:    `grade A`,
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := toolcall.ToolCall{ID: "1", Name: DefaultToolName, Arguments: json.RawMessage(tt.args)}
			got, err := Parse[*verdict](call)
			if tt.wantErr {
				if !errors.Is(err, ErrSchemaValidation) {
					t.Fatalf("Parse: got err = %v, wanted ErrSchemaValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseValueType(t *testing.T) {
	call := toolcall.ToolCall{Name: DefaultToolName, Arguments: json.RawMessage(`{"grade":"B","reasons":["ok"]}`)}
	got, err := Parse[verdict](call)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Grade != "B" {
		t.Errorf("grade: got = %q, wanted = %q", got.Grade, "B")
	}
}

type review struct {
	Summary string `json:"summary" jsonschema:"required"`
	Items   []item `json:"items" jsonschema:"required"`
}

type item struct {
	ID  int64 `json:"id" jsonschema:"required"`
	Bot bool  `json:"bot" jsonschema:"required"`
}

func TestParseRequiredPresence(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		wantErr string
	}{{
		name: "all present",
		args: `{"summary":"","items":[{"id":0,"bot":false}]}`,
	}, {
		name: "empty list",
		args: `{"summary":"ok","items":[]}`,
	}, {
		name:    "missing nested bool",
		args:    `{"summary":"ok","items":[{"id":1}]}`,
		wantErr: "items[0].bot is required",
	}, {
		name:    "null nested bool",
		args:    `{"summary":"ok","items":[{"id":1,"bot":true},{"id":2,"bot":null}]}`,
		wantErr: "items[1].bot must not be null",
	}, {
		name:    "null top-level",
		args:    `{"summary":null,"items":[]}`,
		wantErr: "summary must not be null",
	}, {
		name:    "missing list",
		args:    `{"summary":"ok"}`,
		wantErr: "items is required",
	}, {
		name:    "array arguments",
		args:    `[{"summary":"ok"}]`,
		wantErr: "not an object",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := toolcall.ToolCall{Name: DefaultToolName, Arguments: json.RawMessage(tt.args)}
			_, err := Parse[*review](call)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrSchemaValidation) {
				t.Fatalf("Parse: got err = %v, wanted ErrSchemaValidation", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse: got err = %v, wanted it to mention %q", err, tt.wantErr)
			}
		})
	}
}
