package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/goliatone/go-overlay/content"
	"github.com/goliatone/go-overlay/rules"
	"github.com/spf13/cobra"
)

func newMigrationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrations",
		Short: "List the overlay migrations in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := a.migrator()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tNAME\tGUARD")
			for _, step := range migrator.Steps() {
				guard := step.When
				if guard == "" {
					guard = "-"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", step.Version, step.Name, guard)
			}
			fmt.Fprintf(tw, "\nguard engine: %s\n", rules.EngineName(migrator.Evaluator()))
			fmt.Fprintf(tw, "current schema version: %d\n", content.CurrentSchemaVersion)
			return tw.Flush()
		},
	}
}
