/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace records what happened during one agent run.

A Trace holds the prompt, the number of model steps, every tool call with
its arguments and result, and the final value or error. Each trace opens an
OpenTelemetry span ("agent.run") with child spans per tool call.

Tag the run with the pull request it reviews so traces and metrics can be
grouped by repository:

	ctx = agenttrace.WithSubject(ctx, agenttrace.Subject{
		Owner: "acme", Repo: "widgets", Number: 42,
	})

Install a Tracer to receive completed traces; without one, traces are logged
through clog:

	ctx = agenttrace.WithTracer[*report.Report](ctx, agenttrace.ByCode(
		func(tr *agenttrace.Trace[*report.Report]) { ... },
	))
*/
package agenttrace
