/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package submitresult provides the terminal tool through which a model
// returns its final structured answer, and the strict parser that turns
// that tool call back into a validated Go value.
package submitresult
