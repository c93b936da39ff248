/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"chainguard.dev/prreport/agents/metaagent"
	"chainguard.dev/prreport/retrieval/chunker"
	"chainguard.dev/prreport/retrieval/corpus"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

func newBuildCorpusCmd() *cobra.Command {
	var (
		size, overlap int
		reset         bool
	)
	cmd := &cobra.Command{
		Use:   "build-corpus <markdown-file>",
		Short: "Chunk, embed and index the book into DATABASE_URL",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sp, err := chunker.New(size, overlap)
			if err != nil {
				return usageError{err}
			}
			text, err := os.ReadFile(args[0])
			if err != nil {
				return usageError{fmt.Errorf("reading corpus: %w", err)}
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return usageError{fmt.Errorf("processing config: %w", err)}
			}
			if cfg.DatabaseURL == "" {
				return usageError{fmt.Errorf("DATABASE_URL is required")}
			}
			e, err := metaagent.NewEmbedder(ctx, cfg.agentConfig())
			if err != nil {
				return fmt.Errorf("creating embedder: %w", err)
			}
			st, err := openPGStore(ctx, cfg, e)
			if err != nil {
				return err
			}
			defer st.Close()

			if reset {
				if err := st.Reset(ctx); err != nil {
					return fmt.Errorf("resetting corpus: %w", err)
				}
			}
			n, err := corpus.Build(ctx, string(text), sp, e, st,
				corpus.WithMetadata(map[string]string{"source": filepath.Base(args[0])}))
			if err != nil {
				return err
			}
			clog.InfoContextf(ctx, "Indexed %d chunks from %s", n, args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "chunk-size", chunker.DefaultSize, "Maximum chunk length in characters")
	cmd.Flags().IntVar(&overlap, "chunk-overlap", chunker.DefaultOverlap, "Characters shared by consecutive chunks")
	cmd.Flags().BoolVar(&reset, "reset", false, "Remove previously indexed chunks first")
	return cmd
}
