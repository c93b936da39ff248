/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"

	"chainguard.dev/prreport/pullrequest"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		format     string
		corpusFile string
	)
	cmd := &cobra.Command{
		Use:   "generate <pull-request-url>",
		Short: "Print the review report of a pull request",
		Example: `  prreport generate https://github.com/owner/repo/pull/1234
  prreport generate --format table --corpus book-pr.md https://github.com/owner/repo/pull/1234`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := formatterFor(format)
			if err != nil {
				return usageError{err}
			}
			ref, err := pullrequest.ParseURL(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return usageError{fmt.Errorf("processing config: %w", err)}
			}
			c, err := newComponents(ctx, cfg, corpusFile)
			if err != nil {
				return err
			}
			defer c.Close()

			pr, err := c.service.Fetch(ctx, ref)
			if err != nil {
				return err
			}
			r, err := c.service.Generate(ctx, pr)
			if err != nil {
				return err
			}
			return out(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "json", "Output format: json, yaml or table")
	cmd.Flags().StringVar(&corpusFile, "corpus", "", "Index this Markdown file in memory instead of using DATABASE_URL")
	return cmd
}
