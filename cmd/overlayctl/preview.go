package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/goliatone/go-overlay/pkg/site"
	"github.com/spf13/cobra"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		style string
		width int
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the saved landing page copy in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, closeStore, err := a.openEditor(cmd.Context())
			defer closeStore()
			if err != nil {
				return err
			}
			outline := site.Outline(editor.Document())
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), outline)
				return err
			}

			styleOpt := glamour.WithAutoStyle()
			if style != "auto" {
				styleOpt = glamour.WithStylePath(style)
			}
			renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			out, err := renderer.Render(outline)
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light, notty")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown without terminal styling")
	return cmd
}
