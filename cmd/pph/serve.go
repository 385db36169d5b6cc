package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	pphlifecycle "github.com/aretw0/pph/pkg/adapters/lifecycle"
	"github.com/aretw0/pph/pkg/core"
	"github.com/aretw0/pph/pkg/server"
)

var (
	serveAddr    string
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the widget over HTTP",
	Long: `Serve the widget over HTTP. Changes written by other processes (the CLI,
another server, a text editor on the data directory) are picked up and
pushed to open pages.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		if w, ok := h.Storage().(core.Watchable); ok && !serveNoWatch {
			events, err := w.Watch(ctx, "pph_*")
			if err != nil {
				return err
			}
			if err := h.Follow(ctx, pphlifecycle.NewSource(events)); err != nil {
				return err
			}
		}

		addr := serveAddr
		if addr == "" && cfg != nil {
			addr = cfg.Addr
		}
		srv := server.New(h, server.Config{Addr: addr, Logger: slog.Default()})
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default "+server.DefaultAddr+")")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not follow external changes")
}
