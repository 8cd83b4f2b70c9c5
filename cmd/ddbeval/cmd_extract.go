package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spboyer/ddbeval/internal/reporting"
	"github.com/spboyer/ddbeval/internal/sections"
)

func newExtractCommand() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "extract <transcript-file>",
		Short: "Extract the modeling session and data model from a transcript",
		Long: `Extract the two guidance sections from a saved assistant payload and print
the outcome and the heading outline of each section.

The file holds the raw payload ({"content": [{"text": "..."}]}), a report written
by "ddbeval run -o", or, with --markdown, the decoded markdown reply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := extractFile(args[0], markdown)
			if err != nil {
				return err
			}
			printExtraction(cmd.OutOrStdout(), ex)
			if !ex.OK() {
				return &EvaluationFailedError{Message: fmt.Sprintf("extraction failed (%s): %s", ex.Outcome, ex.Detail)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Treat the file as decoded markdown rather than a payload")

	return cmd
}

func extractFile(path string, markdown bool) (sections.Extraction, error) {
	if report, err := reporting.ReadReport(path); err == nil && (report.ModelingSession != "" || report.DataModel != "") {
		return sections.Extraction{Outcome: sections.OK, Session: report.ModelingSession, Design: report.DataModel}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sections.Extraction{}, fmt.Errorf("reading transcript: %w", err)
	}
	if markdown {
		return sections.Split(string(data)), nil
	}
	return sections.Extract(string(data)), nil
}

//nolint:errcheck // display-only writes
func printExtraction(w io.Writer, ex sections.Extraction) {
	fmt.Fprintf(w, "Outcome: %s\n", ex.Outcome)
	if ex.Detail != "" {
		fmt.Fprintf(w, "Detail:  %s\n", ex.Detail)
	}
	if !ex.OK() {
		return
	}

	for _, part := range []struct {
		title string
		body  string
	}{
		{"Modeling Session", ex.Session},
		{"Data Model", ex.Design},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s (%d chars)", part.title, len(part.body))))
		headings := sections.Outline(part.body)
		if len(headings) == 0 {
			fmt.Fprintln(w, mutedStyle.Render("  (no headings)"))
			continue
		}
		for _, h := range headings {
			fmt.Fprintf(w, "%s- %s\n", strings.Repeat("  ", h.Level), h.Text)
		}
	}
}
