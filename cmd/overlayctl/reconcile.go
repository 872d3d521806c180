package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-overlay/content"
	"github.com/spf13/cobra"
)

func newReconcileCmd(a *app) *cobra.Command {
	var showReport bool
	cmd := &cobra.Command{
		Use:   "reconcile <overlay.json|->",
		Short: "Migrate and reconcile a persisted overlay against the base document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			base, err := a.base()
			if err != nil {
				return err
			}

			migrator, err := a.migrator()
			if err != nil {
				return err
			}

			doc, report, err := content.Load(base, raw, content.WithKey(args[0]), content.WithMigrator(migrator))
			if err != nil {
				return err
			}
			if showReport {
				out, _ := json.MarshalIndent(report, "", "  ")
				fmt.Fprintln(cmd.ErrOrStderr(), string(out))
			}
			return writeIndented(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().BoolVar(&showReport, "report", false, "print the load report to stderr")
	return cmd
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read overlay: %w", err)
	}
	return raw, nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
