package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spboyer/ddbeval/internal/projectconfig"
	"github.com/spboyer/ddbeval/internal/session"
)

func newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "View run session logs",
		Long: `View run event logs.

Session logs are NDJSON files written during runs when --session-log is enabled.
They record the run lifecycle: phases, conversation turns, family evaluations,
and completion.`,
	}

	cmd.AddCommand(newSessionListCommand())
	cmd.AddCommand(newSessionViewCommand())

	return cmd
}

func newSessionListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded session logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("dir") {
				cfg, err := projectconfig.Load(".")
				if err != nil {
					return err
				}
				dir = cfg.Output.SessionsDir
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			files, err := session.ListSessions(absDir)
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No session logs found.") //nolint:errcheck
				return nil
			}

			fmt.Fprintf(out, "%s %-8s %s\n", padRight("File", 40), "Events", "Modified")         //nolint:errcheck
			fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────") //nolint:errcheck
			for _, f := range files {
				fmt.Fprintf(out, "%s %-8d %s\n", padRight(f.Name, 40), f.NumEvents, f.ModTime.Format("2006-01-02 15:04:05")) //nolint:errcheck
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", projectconfig.DefaultSessionsDir, "Directory to search for session logs")

	return cmd
}

func newSessionViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <session-file>",
		Short: "View a run timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := session.ReadEvents(args[0])
			if err != nil {
				return fmt.Errorf("reading session: %w", err)
			}

			session.RenderTimeline(cmd.OutOrStdout(), events)
			return nil
		},
	}

	return cmd
}
