/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package claudemodel implements model.Model on Anthropic's Messages API.

Responses are streamed and accumulated into a single message. Rate-limit
and overload errors (429, 503, 504, 529) are retried with backoff inside
Invoke; anything else is returned to the caller.

Claude can be reached directly with an API key or through Vertex AI:

	m, err := claudemodel.NewVertex(ctx, projectID, "us-east5",
		claudemodel.WithModel("claude-sonnet-4-5"),
	)
*/
package claudemodel
