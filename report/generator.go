/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"context"
	"fmt"

	"chainguard.dev/prreport/agents/agenttrace"
	"chainguard.dev/prreport/agents/model"
	"chainguard.dev/prreport/agents/orchestrator"
	"chainguard.dev/prreport/agents/submitresult"
	"chainguard.dev/prreport/agents/toolcall"
	"chainguard.dev/prreport/pullrequest"
	"chainguard.dev/prreport/retrieval/retrievaltool"
	"chainguard.dev/prreport/retrieval/store"
	"github.com/chainguard-dev/clog"
)

// Reviewer produces a report for a fetched pull request.
type Reviewer interface {
	Generate(ctx context.Context, pr *pullrequest.PullRequest) (*Report, error)
}

// Generator runs the review agent: the model may consult the book through
// the retrieval tool and must answer through the Response tool.
type Generator struct {
	orch *orchestrator.Orchestrator[*Report]
}

var _ Reviewer = (*Generator)(nil)

// NewGenerator wires m and the corpus in st into an orchestrator.
func NewGenerator(m model.Model, st store.Store, opts ...orchestrator.Option) (*Generator, error) {
	retrieve, err := retrievaltool.New[*Report](st)
	if err != nil {
		return nil, fmt.Errorf("creating retrieval tool: %w", err)
	}
	respond, err := submitresult.ToolForResponse[*Report]()
	if err != nil {
		return nil, fmt.Errorf("creating response tool: %w", err)
	}
	registry, err := toolcall.NewRegistry(retrieve, respond)
	if err != nil {
		return nil, fmt.Errorf("creating tool registry: %w", err)
	}
	orch, err := orchestrator.New(m, registry, Instructions, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}
	return &Generator{orch: orch}, nil
}

// Generate implements Reviewer.
func (g *Generator) Generate(ctx context.Context, pr *pullrequest.PullRequest) (*Report, error) {
	ctx = agenttrace.WithSubject(ctx, pr.Ref.Subject())
	log := clog.FromContext(ctx).With("pull_request", pr.Ref.String())

	res, err := g.orch.Run(ctx, FormatPrompt(pr))
	if err != nil {
		log.With("kind", Classify(err)).Error("Report generation failed", "error", err)
		return nil, fmt.Errorf("generating report for %s: %w", pr.Ref, err)
	}
	log.With("steps", len(res.Steps)).Info("Generated report")
	return res.Value, nil
}
