/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"time"

	"chainguard.dev/prreport/agents/metaagent"
	"cloud.google.com/go/compute/metadata"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	Model          string  `env:"PRREPORT_MODEL,default=gpt-4o"`
	EmbeddingModel string  `env:"PRREPORT_EMBEDDING_MODEL"`
	Temperature    float64 `env:"PRREPORT_TEMPERATURE,default=0"`

	MaxSteps int           `env:"PRREPORT_MAX_STEPS,default=16"`
	Timeout  time.Duration `env:"PRREPORT_TIMEOUT,default=5m"`

	GitHubToken     string `env:"GITHUB_TOKEN"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`

	// Vertex AI, for Claude and Gemini without API keys.
	ProjectID string `env:"GOOGLE_CLOUD_PROJECT"`
	Region    string `env:"GOOGLE_CLOUD_REGION,default=us-central1"`

	// DatabaseURL points at PostgreSQL with pgvector holding the corpus.
	DatabaseURL         string `env:"DATABASE_URL"`
	EmbeddingDimensions int    `env:"PRREPORT_EMBEDDING_DIMENSIONS,default=1536"`
	CorpusTable         string `env:"PRREPORT_CORPUS_TABLE,default=corpus_chunks"`

	// RedisURL selects the Redis cache; empty caches in memory.
	RedisURL    string        `env:"REDIS_URL"`
	CachePrefix string        `env:"PRREPORT_CACHE_PREFIX,default=prreport"`
	FetchTTL    time.Duration `env:"PRREPORT_FETCH_TTL,default=1m"`
	ReportTTL   time.Duration `env:"PRREPORT_REPORT_TTL,default=24h"`

	Port int `env:"PORT,default=8080"`
}

func loadConfig(ctx context.Context) (*config, error) {
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if cfg.ProjectID == "" && metadata.OnGCE() {
		if id, err := metadata.ProjectIDWithContext(ctx); err == nil {
			clog.FromContext(ctx).With("project_id", id).Info("Detected Google Cloud project")
			cfg.ProjectID = id
		}
	}
	return &cfg, nil
}

func (c *config) agentConfig() metaagent.Config {
	return metaagent.Config{
		Model:           c.Model,
		EmbeddingModel:  c.EmbeddingModel,
		Temperature:     c.Temperature,
		ProjectID:       c.ProjectID,
		Region:          c.Region,
		OpenAIAPIKey:    c.OpenAIAPIKey,
		AnthropicAPIKey: c.AnthropicAPIKey,
		GeminiAPIKey:    c.GeminiAPIKey,
	}
}
