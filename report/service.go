/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"context"
	"time"

	"chainguard.dev/prreport/cache"
	"chainguard.dev/prreport/pullrequest"
)

const (
	// DefaultFetchTTL bounds how stale a cached pull request may be.
	DefaultFetchTTL = time.Minute
	// DefaultReportTTL bounds how long a generated report is reused.
	DefaultReportTTL = 24 * time.Hour
)

// ServiceOption configures a Service.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	fetchTTL  time.Duration
	reportTTL time.Duration
	cacheOpts []cache.Option
}

// WithFetchTTL overrides DefaultFetchTTL.
func WithFetchTTL(d time.Duration) ServiceOption {
	return func(c *serviceConfig) { c.fetchTTL = d }
}

// WithReportTTL overrides DefaultReportTTL.
func WithReportTTL(d time.Duration) ServiceOption {
	return func(c *serviceConfig) { c.reportTTL = d }
}

// WithCacheOptions passes options to both caches, e.g. cache.WithClock.
func WithCacheOptions(opts ...cache.Option) ServiceOption {
	return func(c *serviceConfig) { c.cacheOpts = append(c.cacheOpts, opts...) }
}

// Service answers report requests through two caches: one over the GitHub
// fetch, keyed by the pull request, and one over generation, keyed by the
// formatted prompt.
type Service struct {
	fetch    func(context.Context, pullrequest.Ref) (*pullrequest.PullRequest, error)
	generate func(context.Context, *pullrequest.PullRequest) (*Report, error)
}

// NewService wraps f and r with caches in st.
func NewService(f pullrequest.Fetcher, r Reviewer, st cache.Store, opts ...ServiceOption) *Service {
	cfg := serviceConfig{fetchTTL: DefaultFetchTTL, reportTTL: DefaultReportTTL}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Service{
		fetch: cache.Wrap(f.Fetch, func(ref pullrequest.Ref) []string {
			return cache.Key("getPullRequestInfoAndComments", ref.Owner, ref.Repo, ref.Number)
		}, cfg.fetchTTL, st, append([]cache.Option{cache.WithName("pull_request")}, cfg.cacheOpts...)...),
		generate: cache.Wrap(r.Generate, CacheKey, cfg.reportTTL, st,
			append([]cache.Option{cache.WithName("report")}, cfg.cacheOpts...)...),
	}
}

// Fetch returns the pull request, from cache when fresh.
func (s *Service) Fetch(ctx context.Context, ref pullrequest.Ref) (*pullrequest.PullRequest, error) {
	return s.fetch(ctx, ref)
}

// Generate returns the report for pr, from cache when fresh.
func (s *Service) Generate(ctx context.Context, pr *pullrequest.PullRequest) (*Report, error) {
	return s.generate(ctx, pr)
}

// ForURL parses a pull request URL, fetches it, and returns its report.
func (s *Service) ForURL(ctx context.Context, rawURL string) (*Report, error) {
	ref, err := pullrequest.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	pr, err := s.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, pr)
}
