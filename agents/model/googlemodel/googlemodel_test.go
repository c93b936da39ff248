/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googlemodel

import (
	"encoding/json"
	"errors"
	"testing"

	"chainguard.dev/prreport/agents/conversation"
	"chainguard.dev/prreport/agents/model"
	"chainguard.dev/prreport/agents/schema"
	"chainguard.dev/prreport/agents/toolcall"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	conv := conversation.New("sys", "prompt").Append(
		conversation.AI("",
			toolcall.ToolCall{ID: "a", Name: "lookup", Arguments: json.RawMessage(`{"query":"x"}`)},
			toolcall.ToolCall{ID: "b", Name: "lookup", Arguments: json.RawMessage(`{"query":"y"}`)},
		),
		conversation.ToolResult("a", "lookup", "one"),
		conversation.ToolResult("b", "lookup", "two"),
	)

	got := toContents(conv)
	if len(got) != 3 {
		t.Fatalf("contents: got = %d, wanted = 3", len(got))
	}
	roles := []string{got[0].Role, got[1].Role, got[2].Role}
	if diff := cmp.Diff([]string{genai.RoleUser, genai.RoleModel, genai.RoleUser}, roles); diff != "" {
		t.Errorf("roles (-want +got):\n%s", diff)
	}
	call := got[1].Parts[0].FunctionCall
	if call == nil || call.ID != "a" || call.Args["query"] != "x" {
		t.Errorf("function call: got = %+v", call)
	}
	if len(got[2].Parts) != 2 {
		t.Fatalf("function responses: got = %d, wanted = 2", len(got[2].Parts))
	}
	resp := got[2].Parts[1].FunctionResponse
	if resp == nil || resp.ID != "b" || resp.Response["output"] != "two" {
		t.Errorf("function response: got = %+v", resp)
	}
}

func TestFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{
					{Text: "hidden", Thought: true},
					{Text: "Checking."},
					{FunctionCall: &genai.FunctionCall{Name: "lookup", Args: map[string]any{"query": "tone"}}},
				},
			},
		}},
	}
	got, err := fromResponse(resp)
	if err != nil {
		t.Fatalf("fromResponse: %v", err)
	}
	if got.Content != "Checking." {
		t.Errorf("content: got = %q, wanted = %q", got.Content, "Checking.")
	}
	if len(got.ToolCalls) != 1 {
		t.Fatalf("tool calls: got = %d, wanted = 1", len(got.ToolCalls))
	}
	if got.ToolCalls[0].ID == "" {
		t.Error("tool call ID: got empty, wanted generated ID")
	}
	if string(got.ToolCalls[0].Arguments) != `{"query":"tone"}` {
		t.Errorf("arguments: got = %s", got.ToolCalls[0].Arguments)
	}

	for name, r := range map[string]*genai.GenerateContentResponse{
		"nil":           nil,
		"no candidates": {},
		"malformed": {Candidates: []*genai.Candidate{{
			Content:      &genai.Content{},
			FinishReason: genai.FinishReasonMalformedFunctionCall,
		}}},
	} {
		if _, err := fromResponse(r); !errors.Is(err, model.ErrEmptyResponse) {
			t.Errorf("%s: got err = %v, wanted ErrEmptyResponse", name, err)
		}
	}
}

func TestSchemaToGenai(t *testing.T) {
	s := schema.Object(
		schema.Property{Name: "query", Type: "string", Description: "What to look up.", Required: true},
		schema.Property{Name: "limit", Type: "integer"},
	)
	got := schemaToGenai(s)
	want := &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"query"},
		Properties: map[string]*genai.Schema{
			"query": {Type: genai.TypeString, Description: "What to look up."},
			"limit": {Type: genai.TypeInteger},
		},
		PropertyOrdering: []string{"query", "limit"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("schemaToGenai (-want +got):\n%s", diff)
	}
	if schemaToGenai(nil) != nil {
		t.Error("schemaToGenai(nil): got non-nil")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "api 429", err: genai.APIError{Code: 429}, want: true},
		{name: "api 400", err: genai.APIError{Code: 400}, want: false},
		{name: "resource exhausted text", err: errors.New("RESOURCE_EXHAUSTED: quota"), want: true},
		{name: "other", err: errors.New("permission denied"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable: got = %v, wanted = %v", got, tt.want)
			}
		})
	}
}
