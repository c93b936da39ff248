/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"chainguard.dev/prreport/agents/metaagent"
	"chainguard.dev/prreport/agents/metrics"
	"chainguard.dev/prreport/agents/orchestrator"
	"chainguard.dev/prreport/cache"
	"chainguard.dev/prreport/cache/memstore"
	"chainguard.dev/prreport/cache/redisstore"
	"chainguard.dev/prreport/pullrequest"
	"chainguard.dev/prreport/report"
	"chainguard.dev/prreport/retrieval/chunker"
	"chainguard.dev/prreport/retrieval/corpus"
	"chainguard.dev/prreport/retrieval/embedding"
	"chainguard.dev/prreport/retrieval/store"
	vecmem "chainguard.dev/prreport/retrieval/store/memstore"
	"chainguard.dev/prreport/retrieval/store/pgstore"
	"github.com/chainguard-dev/clog"
)

// components owns everything a report run needs and releases it on Close.
type components struct {
	service *report.Service
	closers []io.Closer
}

func (c *components) Close() error {
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}

// corpusFile, when set, is indexed in memory instead of reading the corpus
// from DATABASE_URL.
func newComponents(ctx context.Context, cfg *config, corpusFile string) (*components, error) {
	c := &components{}
	fail := func(err error) (*components, error) {
		_ = c.Close()
		return nil, err
	}

	genai := metrics.NewGenAI(metrics.MeterName)
	agentCfg := cfg.agentConfig()
	agentCfg.Metrics = genai

	embedder, err := metaagent.NewEmbedder(ctx, agentCfg)
	if err != nil {
		return fail(fmt.Errorf("creating embedder: %w", err))
	}
	st, err := openCorpus(ctx, cfg, embedder, corpusFile, c)
	if err != nil {
		return fail(err)
	}

	m, err := metaagent.NewModel(ctx, agentCfg)
	if err != nil {
		return fail(fmt.Errorf("creating model: %w", err))
	}
	gen, err := report.NewGenerator(m, st,
		orchestrator.WithMaxSteps(cfg.MaxSteps),
		orchestrator.WithTimeout(cfg.Timeout),
		orchestrator.WithMetrics(genai),
	)
	if err != nil {
		return fail(err)
	}

	cs, err := openCache(ctx, cfg, c)
	if err != nil {
		return fail(err)
	}

	c.service = report.NewService(
		pullrequest.NewTokenFetcher(ctx, cfg.GitHubToken), gen, cs,
		report.WithFetchTTL(cfg.FetchTTL),
		report.WithReportTTL(cfg.ReportTTL),
	)
	clog.FromContext(ctx).With("model", m.Name()).Info("Report service ready")
	return c, nil
}

func openCorpus(ctx context.Context, cfg *config, e embedding.Embedder, corpusFile string, c *components) (store.Store, error) {
	if corpusFile != "" {
		text, err := os.ReadFile(corpusFile)
		if err != nil {
			return nil, usageError{fmt.Errorf("reading corpus: %w", err)}
		}
		st := vecmem.New(e)
		if _, err := corpus.Build(ctx, string(text), chunker.Default(), e, st,
			corpus.WithMetadata(map[string]string{"source": corpusFile})); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", corpusFile, err)
		}
		return st, nil
	}
	if cfg.DatabaseURL == "" {
		return nil, usageError{errors.New("no corpus: set DATABASE_URL or pass --corpus")}
	}
	st, err := openPGStore(ctx, cfg, e)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, st)
	return st, nil
}

func openPGStore(ctx context.Context, cfg *config, e embedding.Embedder) (*pgstore.Store, error) {
	st, err := pgstore.Open(ctx, cfg.DatabaseURL, e, cfg.EmbeddingDimensions, pgstore.WithTable(cfg.CorpusTable))
	if err != nil {
		return nil, fmt.Errorf("opening corpus database: %w", err)
	}
	return st, nil
}

func openCache(ctx context.Context, cfg *config, c *components) (cache.Store, error) {
	if cfg.RedisURL == "" {
		clog.FromContext(ctx).Info("REDIS_URL not set, caching in memory")
		return memstore.New(), nil
	}
	rs, err := redisstore.Open(ctx, cfg.RedisURL, cfg.CachePrefix)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	c.closers = append(c.closers, rs)
	return rs, nil
}
