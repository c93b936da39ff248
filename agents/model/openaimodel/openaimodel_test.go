/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaimodel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chainguard.dev/prreport/agents/conversation"
	"chainguard.dev/prreport/agents/retry"
	"chainguard.dev/prreport/agents/schema"
	"chainguard.dev/prreport/agents/toolcall"
	"github.com/google/go-cmp/cmp"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const completion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": null,
      "tool_calls": [{
        "id": "call_1",
        "type": "function",
        "function": {"name": "lookup", "arguments": "{\"query\":\"tone\"}"}
      }]
    }
  }],
  "usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
}`

func newTestModel(t *testing.T, handler http.HandlerFunc, opts ...Option) *Model {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := openai.NewClient(
		option.WithBaseURL(srv.URL+"/"),
		option.WithAPIKey("test"),
		option.WithMaxRetries(0),
	)
	m, err := New(client, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestInvoke(t *testing.T) {
	var body map[string]any
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path: got = %q, wanted suffix /chat/completions", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completion)
	})

	conv := conversation.New("instructions", "prompt").Append(
		conversation.AI("", toolcall.ToolCall{ID: "call_0", Name: "lookup", Arguments: json.RawMessage(`{"query":"a"}`)}),
		conversation.ToolResult("call_0", "lookup", "chunk"),
	)
	tools := []toolcall.Definition{{
		Name:        "lookup",
		Description: "Look things up.",
		Parameters:  schema.Object(schema.Property{Name: "query", Type: "string", Required: true}),
	}}

	got, err := m.Invoke(context.Background(), conv, tools)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	want := conversation.AI("", toolcall.ToolCall{ID: "call_1", Name: "lookup", Arguments: json.RawMessage(`{"query":"tone"}`)})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Invoke (-want +got):\n%s", diff)
	}

	if body["model"] != DefaultModel {
		t.Errorf("model: got = %v, wanted = %q", body["model"], DefaultModel)
	}
	if body["temperature"] != float64(0) {
		t.Errorf("temperature: got = %v, wanted = 0", body["temperature"])
	}
	if msgs, _ := body["messages"].([]any); len(msgs) != 4 {
		t.Errorf("messages: got = %d, wanted = 4", len(msgs))
	}
	if tl, _ := body["tools"].([]any); len(tl) != 1 {
		t.Errorf("tools: got = %d, wanted = 1", len(tl))
	}
}

func TestInvokeNoChoices(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o","choices":[]}`)
	})
	if _, err := m.Invoke(context.Background(), conversation.New("s", "p"), nil); err == nil {
		t.Error("Invoke: got nil error, wanted error")
	}
}

func TestInvokeRetriesRateLimit(t *testing.T) {
	calls := 0
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"message":"slow down","type":"rate_limit"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completion)
	}, WithRetryConfig(retry.Config{Attempts: 2, Initial: time.Millisecond, Ceiling: time.Millisecond}))

	if _, err := m.Invoke(context.Background(), conversation.New("s", "p"), nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls: got = %d, wanted = 2", calls)
	}
}

func TestInvokePermanentError(t *testing.T) {
	calls := 0
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	})

	_, err := m.Invoke(context.Background(), conversation.New("s", "p"), nil)
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Invoke: got err = %v, wanted 400 API error", err)
	}
	if calls != 1 {
		t.Errorf("calls: got = %d, wanted = 1", calls)
	}
}

func TestOptions(t *testing.T) {
	client := openai.NewClient(option.WithAPIKey("test"))
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{
		{name: "model", opt: WithModel("gpt-4.1")},
		{name: "empty model", opt: WithModel(""), wantErr: true},
		{name: "temperature", opt: WithTemperature(0.5)},
		{name: "negative temperature", opt: WithTemperature(-1), wantErr: true},
		{name: "bad retry", opt: WithRetryConfig(retry.Config{Attempts: -1}), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(client, tt.opt)
			if (err != nil) != tt.wantErr {
				t.Errorf("New: got err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
