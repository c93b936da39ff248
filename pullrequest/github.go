/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pullrequest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const perPage = 100

// GitHubFetcher reads pull requests through the GitHub REST API.
type GitHubFetcher struct {
	client *github.Client
}

var _ Fetcher = (*GitHubFetcher)(nil)

// NewGitHubFetcher wraps an existing client.
func NewGitHubFetcher(client *github.Client) *GitHubFetcher {
	return &GitHubFetcher{client: client}
}

// NewTokenFetcher authenticates with a personal access token. An empty token
// yields an anonymous client, subject to GitHub's lower rate limits.
func NewTokenFetcher(ctx context.Context, token string) *GitHubFetcher {
	var hc *http.Client
	if token != "" {
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	} else {
		clog.FromContext(ctx).Warn("No GitHub token configured, using anonymous access")
	}
	return NewGitHubFetcher(github.NewClient(hc))
}

// Fetch implements Fetcher. The pull request and both comment lists are
// requested concurrently.
func (f *GitHubFetcher) Fetch(ctx context.Context, ref Ref) (*PullRequest, error) {
	log := clog.FromContext(ctx).With("pull_request", ref.String())

	out := &PullRequest{Ref: ref}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pr, _, err := f.client.PullRequests.Get(gctx, ref.Owner, ref.Repo, ref.Number)
		if err != nil {
			return fmt.Errorf("%w: getting %s: %w", ErrUpstreamFetch, ref, err)
		}
		out.Title = pr.GetTitle()
		out.Author = pr.GetUser().GetLogin()
		out.Body = pr.GetBody()
		return nil
	})
	g.Go(func() error {
		comments, err := f.issueComments(gctx, ref)
		if err != nil {
			return fmt.Errorf("%w: listing issue comments of %s: %w", ErrUpstreamFetch, ref, err)
		}
		out.IssueComments = comments
		return nil
	})
	g.Go(func() error {
		comments, err := f.reviewComments(gctx, ref)
		if err != nil {
			return fmt.Errorf("%w: listing review comments of %s: %w", ErrUpstreamFetch, ref, err)
		}
		out.ReviewComments = comments
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.With("issue_comments", len(out.IssueComments)).
		With("review_comments", len(out.ReviewComments)).
		Info("Fetched pull request")
	return out, nil
}

func (f *GitHubFetcher) issueComments(ctx context.Context, ref Ref) ([]Comment, error) {
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	var out []Comment
	for {
		page, resp, err := f.client.Issues.ListComments(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return nil, err
		}
		for _, c := range page {
			out = append(out, Comment{
				ID:     c.GetID(),
				Author: c.GetUser().GetLogin(),
				Body:   c.GetBody(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

func (f *GitHubFetcher) reviewComments(ctx context.Context, ref Ref) ([]Comment, error) {
	opts := &github.PullRequestListCommentsOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	var out []Comment
	for {
		page, resp, err := f.client.PullRequests.ListComments(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return nil, err
		}
		for _, c := range page {
			out = append(out, Comment{
				ID:        c.GetID(),
				Author:    c.GetUser().GetLogin(),
				Body:      c.GetBody(),
				InReplyTo: c.GetInReplyTo(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}
