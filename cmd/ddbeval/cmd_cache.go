package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spboyer/ddbeval/internal/cache"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the reasoning engine answer cache",
		Long: `Manage the reasoning engine answer cache.

With --cache-dir, run and batch store every reasoning engine answer keyed by
the judge model, rubric version and the full request, and reuse it when the
same content is scored again.`,
	}

	cmd.AddCommand(newCacheStatusCommand())
	cmd.AddCommand(newCacheClearCommand())

	return cmd
}

func newCacheStatusCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show how many answers are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving cache directory: %w", err)
			}

			n, err := cache.New(absDir).Len()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d cached answer(s) in %s\n", n, absDir) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "cache-dir", cache.DefaultDir, "Cache directory")

	return cmd
}

func newCacheClearCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving cache directory: %w", err)
			}

			if err := cache.New(absDir).Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", absDir) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "cache-dir", cache.DefaultDir, "Cache directory to clear")

	return cmd
}
