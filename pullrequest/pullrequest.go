/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pullrequest identifies GitHub pull requests and fetches their
// description and discussion.
package pullrequest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"chainguard.dev/prreport/agents/agenttrace"
)

var (
	// ErrInvalidReference is returned for strings that do not name a pull
	// request on github.com.
	ErrInvalidReference = errors.New("invalid GitHub pull request URL")

	// ErrUpstreamFetch wraps every failure talking to GitHub.
	ErrUpstreamFetch = errors.New("fetching pull request from GitHub")
)

// Ref identifies one pull request.
type Ref struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// URL returns the canonical web URL of the pull request.
func (r Ref) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", r.Owner, r.Repo, r.Number)
}

// Subject returns the trace subject for runs reviewing r.
func (r Ref) Subject() agenttrace.Subject {
	return agenttrace.Subject{Owner: r.Owner, Repo: r.Repo, Number: r.Number}
}

// PullRequest is the description and discussion of a pull request.
type PullRequest struct {
	Ref    Ref    `json:"ref"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Body   string `json:"body"`
	// IssueComments are the conversation-tab comments.
	IssueComments []Comment `json:"issueComments"`
	// ReviewComments are the comments attached to lines of the diff.
	ReviewComments []Comment `json:"reviewComments"`
}

// Comment is one comment on a pull request.
type Comment struct {
	ID     int64  `json:"id"`
	Author string `json:"author"`
	Body   string `json:"body"`
	// InReplyTo is the ID of the review comment this one answers, or 0.
	InReplyTo int64 `json:"inReplyTo,omitempty"`
}

// Fetcher loads a pull request.
type Fetcher interface {
	Fetch(ctx context.Context, ref Ref) (*PullRequest, error)
}

var pullPath = regexp.MustCompile(`^/([^/]+)/([^/]+)/pull/(\d+)(?:/.*)?$`)

// ParseURL extracts the reference from a pull request URL such as
// https://github.com/owner/repo/pull/123/files.
func ParseURL(s string) (Ref, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q: %w", ErrInvalidReference, s, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Ref{}, fmt.Errorf("%w: %q: not an http(s) URL", ErrInvalidReference, s)
	}
	if !strings.EqualFold(u.Hostname(), "github.com") {
		return Ref{}, fmt.Errorf("%w: %q: host must be github.com", ErrInvalidReference, s)
	}
	m := pullPath.FindStringSubmatch(u.Path)
	if m == nil {
		return Ref{}, fmt.Errorf("%w: %q: path is not /{owner}/{repo}/pull/{number}", ErrInvalidReference, s)
	}
	n, err := strconv.Atoi(m[3])
	if err != nil || n <= 0 {
		return Ref{}, fmt.Errorf("%w: %q: bad pull request number", ErrInvalidReference, s)
	}
	return Ref{Owner: m[1], Repo: m[2], Number: n}, nil
}
