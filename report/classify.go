/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"errors"

	"chainguard.dev/prreport/agents/orchestrator"
	"chainguard.dev/prreport/agents/submitresult"
	"chainguard.dev/prreport/pullrequest"
	"chainguard.dev/prreport/retrieval/embedding"
	"chainguard.dev/prreport/retrieval/store"
)

// Error kinds returned by Classify.
const (
	KindInvalidReference = "InvalidReference"
	KindUpstreamFetch    = "UpstreamFetchFailure"
	KindEmbedding        = "EmbeddingFailure"
	KindIndexUnavailable = "IndexUnavailable"
	KindModelInvocation  = "ModelInvocationFailure"
	KindSchemaValidation = "SchemaValidationFailure"
	KindBudgetExhausted  = "BudgetExhausted"
	KindUnknownTool      = "UnknownTool"
	KindInternal         = "Internal"
)

var kinds = []struct {
	sentinel error
	kind     string
}{
	{pullrequest.ErrInvalidReference, KindInvalidReference},
	{pullrequest.ErrUpstreamFetch, KindUpstreamFetch},
	{orchestrator.ErrBudgetExhausted, KindBudgetExhausted},
	{orchestrator.ErrUnknownTool, KindUnknownTool},
	{orchestrator.ErrModelInvocation, KindModelInvocation},
	{submitresult.ErrSchemaValidation, KindSchemaValidation},
	{embedding.ErrEmbeddingFailure, KindEmbedding},
	{store.ErrIndexUnavailable, KindIndexUnavailable},
}

// Classify names the kind of a report error, or "" for nil.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}
