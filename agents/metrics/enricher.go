/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"chainguard.dev/prreport/agents/agenttrace"
	"go.opentelemetry.io/otel/attribute"
)

// AttributeEnricher adds contextual attributes to the base set.
type AttributeEnricher func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue

// SubjectEnricher adds the repository of the pull request recorded on ctx.
func SubjectEnricher(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
	return agenttrace.SubjectFromContext(ctx).EnrichAttributes(base)
}
