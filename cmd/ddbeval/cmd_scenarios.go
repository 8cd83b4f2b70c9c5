package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spboyer/ddbeval/internal/scenario"
)

func newScenariosCommand() *cobra.Command {
	var (
		files []string
		show  string
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List evaluation scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := engineFlags{scenarioFiles: files}
			catalog, err := flags.loadCatalog()
			if err != nil {
				return err
			}

			if show == "" {
				printScenarios(cmd.OutOrStdout(), catalog)
				return nil
			}

			sc, err := catalog.Get(show)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, sectionStyle.Render("Requirements"))                  //nolint:errcheck
			fmt.Fprintln(out, scenario.RequirementSummary(sc))                      //nolint:errcheck
			fmt.Fprintln(out)                                                       //nolint:errcheck
			fmt.Fprintln(out, sectionStyle.Render("Message sent to the assistant")) //nolint:errcheck
			fmt.Fprintln(out, scenario.ComprehensiveMessage(sc))                    //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&files, "scenario-file", nil, "YAML file with extra scenarios (can be repeated)")
	cmd.Flags().StringVar(&show, "show", "", "Print the requirement summary and message of one scenario")

	return cmd
}
