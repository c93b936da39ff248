/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"errors"

	"chainguard.dev/prreport/pullrequest"
	"github.com/spf13/cobra"
)

const (
	exitOK       = 0
	exitInternal = 1
	exitInvalid  = 2
)

// usageError marks errors caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "prreport",
		Short: "Grade the code review of a GitHub pull request",
		Long: `prreport reads a pull request's description and comments and asks a
language model, grounded in the book Pull Requests and Code Review, to grade
them.`,
		SilenceUsage: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.AddCommand(newGenerateCmd(), newServeCmd(), newBuildCorpusCmd())
	return root
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue), errors.Is(err, pullrequest.ErrInvalidReference):
		return exitInvalid
	default:
		return exitInternal
	}
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
