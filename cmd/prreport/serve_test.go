/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"net/url"
	"testing"

	"chainguard.dev/prreport/agents/orchestrator"
	"chainguard.dev/prreport/pullrequest"
	"chainguard.dev/prreport/report"
)

type fakeReporter struct {
	err error
	got string
}

func (f *fakeReporter) ForURL(_ context.Context, rawURL string) (*report.Report, error) {
	f.got = rawURL
	if f.err != nil {
		return nil, f.err
	}
	return sampleReport(), nil
}

func TestServe(t *testing.T) {
	const prURL = "https://github.com/o/r/pull/7"
	tests := []struct {
		name     string
		query    string
		err      error
		wantCode int
		wantKind string
	}{{
		name:     "ok",
		query:    "?url=" + url.QueryEscape(prURL),
		wantCode: 200,
	}, {
		name:     "missing url",
		wantCode: 422,
		wantKind: report.KindInvalidReference,
	}, {
		name:     "invalid reference",
		query:    "?url=nope",
		err:      fmt.Errorf("%w: nope", pullrequest.ErrInvalidReference),
		wantCode: 422,
		wantKind: report.KindInvalidReference,
	}, {
		name:     "upstream",
		query:    "?url=" + url.QueryEscape(prURL),
		err:      fmt.Errorf("%w: 502", pullrequest.ErrUpstreamFetch),
		wantCode: 502,
		wantKind: report.KindUpstreamFetch,
	}, {
		name:     "budget",
		query:    "?url=" + url.QueryEscape(prURL),
		err:      fmt.Errorf("%w: 16 steps", orchestrator.ErrBudgetExhausted),
		wantCode: 500,
		wantKind: report.KindBudgetExhausted,
	}, {
		name:     "other",
		query:    "?url=" + url.QueryEscape(prURL),
		err:      errors.New("boom"),
		wantCode: 500,
		wantKind: report.KindInternal,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeReporter{err: tt.err}
			app := newApp(context.Background(), svc)

			resp, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			if err != nil {
				t.Fatalf("app.Test() = %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantCode {
				t.Errorf("status = %d, wanted = %d", resp.StatusCode, tt.wantCode)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("ReadAll() = %v", err)
			}

			if tt.wantCode == 200 {
				if svc.got != prURL {
					t.Errorf("url = %q, wanted = %q", svc.got, prURL)
				}
				var r report.Report
				if err := json.Unmarshal(body, &r); err != nil {
					t.Fatalf("json.Unmarshal() = %v", err)
				}
				if r.DescriptionGrade != report.GradeA {
					t.Errorf("descriptionGrade = %q, wanted = A", r.DescriptionGrade)
				}
				return
			}
			var e struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
			}
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("json.Unmarshal(%s) = %v", body, err)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("kind = %q, wanted = %q", e.Kind, tt.wantKind)
			}
		})
	}
}

func TestServeMetricsAndHealth(t *testing.T) {
	app := newApp(context.Background(), &fakeReporter{})
	for _, path := range []string{"/metrics", "/healthz"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("app.Test(%s) = %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Errorf("GET %s = %d, wanted = 200", path, resp.StatusCode)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{fmt.Errorf("%w: x", pullrequest.ErrInvalidReference), 2},
		{usageError{errors.New("accepts 1 arg(s), received 0")}, 2},
		{fmt.Errorf("%w: 500", pullrequest.ErrUpstreamFetch), 1},
		{errors.New("boom"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, wanted = %d", tt.err, got, tt.want)
		}
	}
}

func TestGenerateRejectsBadInputBeforeWiring(t *testing.T) {
	for _, args := range [][]string{
		{"generate"},
		{"generate", "https://gitlab.com/o/r/pull/1"},
		{"generate", "--format", "xml", "https://github.com/o/r/pull/1"},
		{"build-corpus", "--chunk-size", "10", "--chunk-overlap", "10", "book.md"},
	} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		if got := exitCode(cmd.ExecuteContext(context.Background())); got != exitInvalid {
			t.Errorf("%v: exit code = %d, wanted = %d", args, got, exitInvalid)
		}
	}
}
