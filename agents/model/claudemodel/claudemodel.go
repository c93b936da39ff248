/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudemodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chainguard.dev/prreport/agents/conversation"
	"chainguard.dev/prreport/agents/metrics"
	"chainguard.dev/prreport/agents/model"
	"chainguard.dev/prreport/agents/retry"
	"chainguard.dev/prreport/agents/schema"
	"chainguard.dev/prreport/agents/toolcall"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/chainguard-dev/clog"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5"

// Model streams Claude message responses.
type Model struct {
	client      anthropic.Client
	name        string
	maxTokens   int64
	temperature float64
	retryConfig retry.Config
	metrics     *metrics.GenAI
}

var _ model.Model = (*Model)(nil)

// New returns a Model using client.
func New(client anthropic.Client, opts ...Option) (*Model, error) {
	m := &Model{
		client:      client,
		name:        DefaultModel,
		maxTokens:   8192,
		retryConfig: retry.Default(),
		metrics:     metrics.NewGenAI(metrics.MeterName),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return m, nil
}

// NewVertex returns a Model that reaches Claude through Vertex AI with
// application default credentials.
func NewVertex(ctx context.Context, projectID, region string, opts ...Option) (*Model, error) {
	if projectID == "" || region == "" {
		return nil, errors.New("vertex project and region are required")
	}
	client := anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, projectID))
	return New(client, opts...)
}

// NewAPIKey returns a Model that calls the Anthropic API directly.
func NewAPIKey(key string, opts ...Option) (*Model, error) {
	if key == "" {
		return nil, errors.New("anthropic API key is required")
	}
	return New(anthropic.NewClient(option.WithAPIKey(key)), opts...)
}

// Name implements model.Model.
func (m *Model) Name() string { return m.name }

// Invoke implements model.Model.
func (m *Model) Invoke(ctx context.Context, conv conversation.Conversation, tools []toolcall.Definition) (conversation.Message, error) {
	params, err := m.params(conv, tools)
	if err != nil {
		return conversation.Message{}, err
	}

	msg, err := retry.Do(ctx, m.retryConfig, "stream_message", isRetryable, func() (anthropic.Message, error) {
		stream := m.client.Messages.NewStreaming(ctx, params)
		defer stream.Close()
		var msg anthropic.Message
		for stream.Next() {
			if err := msg.Accumulate(stream.Current()); err != nil {
				return msg, fmt.Errorf("failed to accumulate event: %w", err)
			}
		}
		return msg, stream.Err()
	})
	if err != nil {
		return conversation.Message{}, err
	}

	if msg.Usage.InputTokens > 0 || msg.Usage.OutputTokens > 0 {
		m.metrics.RecordTokens(ctx, m.name, msg.Usage.InputTokens, msg.Usage.OutputTokens)
	}
	clog.FromContext(ctx).With("model", m.name).
		With("stop_reason", string(msg.StopReason)).
		Debug("Claude message received")

	return fromMessage(msg)
}

func (m *Model) params(conv conversation.Conversation, tools []toolcall.Definition) (anthropic.MessageNewParams, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(m.name),
		MaxTokens:   m.maxTokens,
		Messages:    toMessages(conv),
		Temperature: anthropic.Float(m.temperature),
	}
	if sys := conv.System(); sys != "" {
		params.System = []anthropic.TextBlockParam{{Text: sys}}
	}
	for _, def := range tools {
		tool, err := toTool(def)
		if err != nil {
			return params, err
		}
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{OfTool: tool})
	}
	return params, nil
}

func toTool(def toolcall.Definition) (*anthropic.ToolParam, error) {
	s, err := schema.ToMap(def.Parameters)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", def.Name, err)
	}
	input := anthropic.ToolInputSchemaParam{Properties: s["properties"]}
	if req, ok := s["required"].([]any); ok {
		for _, r := range req {
			if name, ok := r.(string); ok {
				input.Required = append(input.Required, name)
			}
		}
	}
	return &anthropic.ToolParam{
		Name:        def.Name,
		Description: anthropic.String(def.Description),
		InputSchema: input,
	}, nil
}

// toMessages converts the conversation to Claude's alternating user and
// assistant turns. The system message travels separately, and consecutive
// tool results share one user turn.
func toMessages(conv conversation.Conversation) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	var results []anthropic.ContentBlockParamUnion
	flush := func() {
		if len(results) > 0 {
			out = append(out, anthropic.NewUserMessage(results...))
			results = nil
		}
	}
	for _, msg := range conv.Messages() {
		switch msg.Role {
		case conversation.RoleSystem:
		case conversation.RoleHuman:
			flush()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case conversation.RoleTool:
			results = append(results, anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false))
		case conversation.RoleAI:
			flush()
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    call.ID,
						Name:  call.Name,
						Input: call.Arguments,
					},
				})
			}
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})
		}
	}
	flush()
	return out
}

func fromMessage(msg anthropic.Message) (conversation.Message, error) {
	if len(msg.Content) == 0 {
		return conversation.Message{}, model.ErrEmptyResponse
	}
	var text string
	var calls []toolcall.ToolCall
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			text += block.Text
		case "tool_use":
			args := json.RawMessage(block.Input)
			if len(args) == 0 {
				args = json.RawMessage(`{}`)
			}
			calls = append(calls, toolcall.ToolCall{ID: block.ID, Name: block.Name, Arguments: args})
		}
	}
	return conversation.AI(text, calls...), nil
}

// isRetryable covers rate limits, overload and transient gateway errors.
func isRetryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
