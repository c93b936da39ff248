/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package modeltest provides a scripted model.Model for tests.
package modeltest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"chainguard.dev/prreport/agents/conversation"
	"chainguard.dev/prreport/agents/model"
	"chainguard.dev/prreport/agents/toolcall"
)

// ErrScriptExhausted is returned once every scripted reply has been used.
var ErrScriptExhausted = errors.New("modeltest: no scripted reply left")

// Reply is one scripted model turn.
type Reply struct {
	Message conversation.Message
	Err     error
	// Block makes Invoke wait for ctx to be done before returning.
	Block bool
}

// Say replies with an AI message carrying calls.
func Say(text string, calls ...toolcall.ToolCall) Reply {
	return Reply{Message: conversation.AI(text, calls...)}
}

// Fail replies with err.
func Fail(err error) Reply {
	return Reply{Err: err}
}

// Hang blocks until the caller's context is cancelled.
func Hang() Reply {
	return Reply{Block: true}
}

// Call builds a tool call with JSON arguments.
func Call(id, name, args string) toolcall.ToolCall {
	return toolcall.ToolCall{ID: id, Name: name, Arguments: json.RawMessage(args)}
}

// Model replays its script in order and records every invocation.
type Model struct {
	mu      sync.Mutex
	script  []Reply
	convs   []conversation.Conversation
	toolSet [][]toolcall.Definition
}

var _ model.Model = (*Model)(nil)

// New returns a Model that answers with replies in order.
func New(replies ...Reply) *Model {
	return &Model{script: replies}
}

// Name implements model.Model.
func (m *Model) Name() string { return "scripted" }

// Invoke implements model.Model.
func (m *Model) Invoke(ctx context.Context, conv conversation.Conversation, tools []toolcall.Definition) (conversation.Message, error) {
	m.mu.Lock()
	m.convs = append(m.convs, conv)
	m.toolSet = append(m.toolSet, tools)
	if len(m.script) == 0 {
		m.mu.Unlock()
		return conversation.Message{}, ErrScriptExhausted
	}
	r := m.script[0]
	m.script = m.script[1:]
	m.mu.Unlock()

	if r.Block {
		<-ctx.Done()
		return conversation.Message{}, ctx.Err()
	}
	return r.Message, r.Err
}

// Invocations returns the conversation passed on each call.
func (m *Model) Invocations() []conversation.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]conversation.Conversation(nil), m.convs...)
}

// Tools returns the tool definitions passed on the i-th call.
func (m *Model) Tools(i int) []toolcall.Definition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.toolSet[i]
}
