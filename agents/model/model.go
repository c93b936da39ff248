/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package model defines the capability the orchestrator needs from a
// language model: given the conversation so far and the tools on offer,
// produce the next AI message.
//
// Providers live in subpackages (openaimodel, claudemodel, googlemodel),
// and modeltest supplies a scripted implementation for tests.
package model

import (
	"context"
	"errors"

	"chainguard.dev/prreport/agents/conversation"
	"chainguard.dev/prreport/agents/toolcall"
)

// Model produces the next AI message of a conversation.
type Model interface {
	// Invoke sends the full conversation and tool definitions to the model
	// and returns its reply as a RoleAI message. Implementations may retry
	// transient provider errors; any returned error is final.
	Invoke(ctx context.Context, conv conversation.Conversation, tools []toolcall.Definition) (conversation.Message, error)

	// Name identifies the underlying model, for metrics and logs.
	Name() string
}

// ErrEmptyResponse is returned when a provider replies with no candidate.
var ErrEmptyResponse = errors.New("model returned no response")
