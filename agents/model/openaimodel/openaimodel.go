/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaimodel implements model.Model on the OpenAI chat completions API.
package openaimodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"chainguard.dev/prreport/agents/conversation"
	"chainguard.dev/prreport/agents/metrics"
	"chainguard.dev/prreport/agents/model"
	"chainguard.dev/prreport/agents/retry"
	"chainguard.dev/prreport/agents/schema"
	"chainguard.dev/prreport/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// Model calls OpenAI chat completions with tool definitions attached.
type Model struct {
	client      openai.Client
	name        string
	temperature float64
	retryConfig retry.Config
	metrics     *metrics.GenAI
}

var _ model.Model = (*Model)(nil)

// New returns a Model using client. Temperature defaults to 0.
func New(client openai.Client, opts ...Option) (*Model, error) {
	m := &Model{
		client:      client,
		name:        DefaultModel,
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

// Name implements model.Model.
func (m *Model) Name() string { return m.name }

// Invoke implements model.Model.
func (m *Model) Invoke(ctx context.Context, conv conversation.Conversation, tools []toolcall.Definition) (conversation.Message, error) {
	params, err := m.params(conv, tools)
	if err != nil {
		return conversation.Message{}, err
	}

	resp, err := retry.Do(ctx, m.retryConfig, "chat_completion", isRetryable, func() (*openai.ChatCompletion, error) {
		return m.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return conversation.Message{}, err
	}

	m.metrics.RecordTokens(ctx, m.name, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	clog.FromContext(ctx).With("model", m.name).
		With("prompt_tokens", resp.Usage.PromptTokens).
		Debug("Chat completion received")

	return fromCompletion(resp)
}

func (m *Model) params(conv conversation.Conversation, tools []toolcall.Definition) (openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.name),
		Messages: toMessages(conv),
	}
	// Reasoning models (o1, o3, ...) reject the temperature parameter.
	if !strings.HasPrefix(m.name, "o") {
		params.Temperature = openai.Float(m.temperature)
	}
	for _, def := range tools {
		parameters, err := schema.ToMap(def.Parameters)
		if err != nil {
			return params, fmt.Errorf("tool %q: %w", def.Name, err)
		}
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(parameters),
			},
		})
	}
	return params, nil
}

func toMessages(conv conversation.Conversation) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, conv.Len())
	for _, msg := range conv.Messages() {
		switch msg.Role {
		case conversation.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case conversation.RoleHuman:
			out = append(out, openai.UserMessage(msg.Content))
		case conversation.RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		case conversation.RoleAI:
			asst := &openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				asst.Content.OfString = openai.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: string(call.Arguments),
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: asst})
		}
	}
	return out
}

func fromCompletion(resp *openai.ChatCompletion) (conversation.Message, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return conversation.Message{}, model.ErrEmptyResponse
	}
	msg := resp.Choices[0].Message
	calls := make([]toolcall.ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		args := json.RawMessage(tc.Function.Arguments)
		if len(args) == 0 {
			args = json.RawMessage(`{}`)
		}
		calls = append(calls, toolcall.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	return conversation.AI(msg.Content, calls...), nil
}

var isRetryable = retry.HTTPStatus(func(err error) (int, bool) {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
	http.StatusServiceUnavailable, http.StatusGatewayTimeout)
