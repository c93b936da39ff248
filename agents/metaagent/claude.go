/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"fmt"

	"chainguard.dev/prreport/agents/model/claudemodel"
)

func newClaudeModel(ctx context.Context, cfg Config) (*claudemodel.Model, error) {
	opts := []claudemodel.Option{
		claudemodel.WithModel(cfg.Model),
		claudemodel.WithTemperature(cfg.Temperature),
	}
	if cfg.Retry != nil {
		opts = append(opts, claudemodel.WithRetryConfig(*cfg.Retry))
	}
	if cfg.Metrics != nil {
		opts = append(opts, claudemodel.WithMetrics(cfg.Metrics))
	}

	var (
		m   *claudemodel.Model
		err error
	)
	if cfg.AnthropicAPIKey != "" {
		m, err = claudemodel.NewAPIKey(cfg.AnthropicAPIKey, opts...)
	} else {
		m, err = claudemodel.NewVertex(ctx, cfg.ProjectID, cfg.Region, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("creating Claude model: %w", err)
	}
	return m, nil
}
