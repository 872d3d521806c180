package main

import (
	"github.com/goliatone/go-overlay/pkg/site"
	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var editMode bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the landing page from the saved overlay to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, closeStore, err := a.openEditor(cmd.Context())
			defer closeStore()
			if err != nil {
				return err
			}
			renderer, err := site.New(site.WithLogger(a.logger))
			if err != nil {
				return err
			}
			return renderer.Render(cmd.OutOrStdout(), editor.Document(), editMode)
		},
	}
	cmd.Flags().BoolVar(&editMode, "edit", false, "include inline edit attributes and script")
	return cmd
}
