/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package conversation holds the message history of one agent run.
package conversation

import (
	"slices"

	"chainguard.dev/prreport/agents/toolcall"
)

// Role tags the variant a Message holds.
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleTool   Role = "tool"
)

// Message is one entry of a conversation. ToolCalls is only set on AI
// messages; ToolCallID and ToolName only on tool results.
type Message struct {
	Role       Role                `json:"role"`
	Content    string              `json:"content,omitempty"`
	ToolCalls  []toolcall.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string              `json:"tool_call_id,omitempty"`
	ToolName   string              `json:"tool_name,omitempty"`
}

// System returns a system-instruction message.
func System(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// Human returns a user message.
func Human(text string) Message {
	return Message{Role: RoleHuman, Content: text}
}

// AI returns a model message with optional tool calls.
func AI(text string, calls ...toolcall.ToolCall) Message {
	return Message{Role: RoleAI, Content: text, ToolCalls: slices.Clone(calls)}
}

// ToolResult returns the answer to the tool call with the given ID.
func ToolResult(callID, toolName, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, ToolName: toolName}
}

// Conversation is an ordered, append-only message sequence. The zero value
// is empty. Values are never mutated, so they can be shared freely.
type Conversation struct {
	msgs []Message
}

// New starts a conversation seeded with system instructions and a prompt.
func New(instructions, prompt string) Conversation {
	return Conversation{msgs: []Message{System(instructions), Human(prompt)}}
}

// Append returns a new conversation with msgs added at the end.
func (c Conversation) Append(msgs ...Message) Conversation {
	out := make([]Message, 0, len(c.msgs)+len(msgs))
	out = append(out, c.msgs...)
	for _, m := range msgs {
		m.ToolCalls = slices.Clone(m.ToolCalls)
		out = append(out, m)
	}
	return Conversation{msgs: out}
}

// Len is the number of messages.
func (c Conversation) Len() int { return len(c.msgs) }

// At returns the i-th message.
func (c Conversation) At(i int) Message { return c.msgs[i] }

// Last returns the final message, if any.
func (c Conversation) Last() (Message, bool) {
	if len(c.msgs) == 0 {
		return Message{}, false
	}
	return c.msgs[len(c.msgs)-1], true
}

// Messages returns a copy of the message slice.
func (c Conversation) Messages() []Message {
	return slices.Clone(c.msgs)
}

// System returns the seeding system instructions, or "" when there are none.
func (c Conversation) System() string {
	if len(c.msgs) > 0 && c.msgs[0].Role == RoleSystem {
		return c.msgs[0].Content
	}
	return ""
}
