package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ddbeval",
		Short: "ddbeval - quality evaluation for DynamoDB schema guidance",
		Long: `ddbeval drives a conversational assistant through a DynamoDB data modeling
scenario, extracts the modeling session and data model it produces, and scores
both against fixed rubrics with a reasoning engine.

Settings are read from .ddbeval.yaml in the working directory or its parents.
Command line flags override them.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newBatchCommand())
	cmd.AddCommand(newScenariosCommand())
	cmd.AddCommand(newExtractCommand())
	cmd.AddCommand(newSessionCommand())
	cmd.AddCommand(newCacheCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
