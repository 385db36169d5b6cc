package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pph/pkg/core"
)

var renderCmd = &cobra.Command{
	Use:   "render [panel]",
	Short: "Print the rendered page, or one panel fragment, as HTML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			return h.Renderer().Page(out, h.Document().Page())
		}

		kind, err := core.ParseKind(args[0])
		if err != nil {
			return err
		}
		view, err := h.Panel(kind)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, view.HTML)
		return err
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
