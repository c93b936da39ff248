/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main is the prreport command: it grades the code review of a
// GitHub pull request against the book Pull Requests and Code Review.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		clog.WarnContextf(ctx, "loading .env: %v", err)
	}

	shutdown := setupTracing(ctx)
	err := newRootCmd().ExecuteContext(ctx)
	if serr := shutdown(context.WithoutCancel(ctx)); serr != nil {
		clog.WarnContextf(ctx, "flushing traces: %v", serr)
	}
	os.Exit(exitCode(err))
}
