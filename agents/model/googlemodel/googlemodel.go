/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googlemodel implements model.Model on Gemini through the
// google.golang.org/genai SDK, on either the Gemini API or Vertex AI.
package googlemodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/prreport/agents/conversation"
	"chainguard.dev/prreport/agents/metrics"
	"chainguard.dev/prreport/agents/model"
	"chainguard.dev/prreport/agents/retry"
	"chainguard.dev/prreport/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Model calls GenerateContent with the whole history on every turn.
type Model struct {
	client      *genai.Client
	name        string
	temperature float32
	retryConfig retry.Config
	metrics     *metrics.GenAI
}

var _ model.Model = (*Model)(nil)

// New returns a Model using client.
func New(client *genai.Client, opts ...Option) (*Model, error) {
	if client == nil {
		return nil, errors.New("genai client cannot be nil")
	}
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
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(m.temperature),
	}
	if sys := conv.System(); sys != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: sys}}}
	}
	if len(tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(tools))
		for _, def := range tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  schemaToGenai(def.Parameters),
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	resp, err := retry.Do(ctx, m.retryConfig, "generate_content", isRetryable, func() (*genai.GenerateContentResponse, error) {
		return m.client.Models.GenerateContent(ctx, m.name, toContents(conv), config)
	})
	if err != nil {
		return conversation.Message{}, err
	}

	if resp.UsageMetadata != nil {
		m.metrics.RecordTokens(ctx, m.name,
			int64(resp.UsageMetadata.PromptTokenCount),
			int64(resp.UsageMetadata.CandidatesTokenCount))
	}
	clog.FromContext(ctx).With("model", m.name).Debug("Gemini response received")

	return fromResponse(resp)
}

// toContents converts the conversation into Gemini history. Consecutive
// tool results share one user turn.
func toContents(conv conversation.Conversation) []*genai.Content {
	var out []*genai.Content
	var results []*genai.Part
	flush := func() {
		if len(results) > 0 {
			out = append(out, &genai.Content{Role: genai.RoleUser, Parts: results})
			results = nil
		}
	}
	for _, msg := range conv.Messages() {
		switch msg.Role {
		case conversation.RoleSystem:
		case conversation.RoleHuman:
			flush()
			out = append(out, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case conversation.RoleTool:
			results = append(results, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       msg.ToolCallID,
				Name:     msg.ToolName,
				Response: map[string]any{"output": msg.Content},
			}})
		case conversation.RoleAI:
			flush()
			var parts []*genai.Part
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, call := range msg.ToolCalls {
				args, _ := call.Args()
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   call.ID,
					Name: call.Name,
					Args: args,
				}})
			}
			out = append(out, &genai.Content{Role: genai.RoleModel, Parts: parts})
		}
	}
	flush()
	return out
}

func fromResponse(resp *genai.GenerateContentResponse) (conversation.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return conversation.Message{}, model.ErrEmptyResponse
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonMalformedFunctionCall {
		return conversation.Message{}, fmt.Errorf("%w: malformed function call", model.ErrEmptyResponse)
	}

	var text strings.Builder
	var calls []toolcall.ToolCall
	for _, part := range cand.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return conversation.Message{}, fmt.Errorf("encode %s arguments: %w", part.FunctionCall.Name, err)
			}
			if part.FunctionCall.Args == nil {
				args = []byte(`{}`)
			}
			id := part.FunctionCall.ID
			if id == "" {
				// Gemini omits call IDs; results are matched by ID downstream.
				id = uuid.NewString()
			}
			calls = append(calls, toolcall.ToolCall{ID: id, Name: part.FunctionCall.Name, Arguments: args})
		case part.Text != "" && !part.Thought:
			text.WriteString(part.Text)
		}
	}
	return conversation.AI(text.String(), calls...), nil
}

// isRetryable reports quota, overload and transient server errors.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 503, 504:
			return true
		}
		return false
	}
	msg := err.Error()
	for _, s := range []string{"RESOURCE_EXHAUSTED", "Resource exhausted", "429", "503", "rate limit", "quota exceeded", "Overloaded"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
