package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/goliatone/go-overlay/content"
	"github.com/goliatone/go-overlay/schema/openapi"
	"github.com/spf13/cobra"
)

func newFieldsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List editable document paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch format {
			case "openapi":
				raw, err := openapi.GenerateJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(raw))
				return err
			case "json", "text":
			default:
				return fmt.Errorf("unknown format %q (want text, json or openapi)", format)
			}

			base, err := a.base()
			if err != nil {
				return err
			}
			fields := content.Fields(base)
			if format == "json" {
				return writeIndented(out, fields)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, field := range fields {
				fmt.Fprintf(tw, "%s\t%s\n", field.Path, field.Type)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or openapi")
	return cmd
}
