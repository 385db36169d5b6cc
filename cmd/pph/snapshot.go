package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/pph/pkg/snapshot"
)

var snapshotFormat string

// formatFor resolves --format, falling back to the file extension.
func formatFor(path string) (snapshot.Format, error) {
	if snapshotFormat != "" {
		return snapshot.ParseFormat(snapshotFormat)
	}
	return snapshot.FormatForPath(path), nil
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write all hub data to a JSON or YAML snapshot (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 && args[0] != "-" {
			path = args[0]
		}
		format, err := formatFor(path)
		if err != nil {
			return err
		}

		storage, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer closeStorage(storage)

		var w io.Writer = cmd.OutOrStdout()
		if path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			defer f.Close()
			w = f
		}
		if err := snapshot.Export(cmd.Context(), storage, w, format); err != nil {
			return err
		}
		if path != "" {
			slog.Info("snapshot exported", "path", path, "format", format)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all hub data with a snapshot ('-' reads stdin)",
	Long: `Replace all hub data with a snapshot. JSON input may also be a flat dump
of the browser widget's localStorage (an object of pph_* keys).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var r io.Reader = cmd.InOrStdin()
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()
			r = f
		} else {
			path = ""
		}
		format, err := formatFor(path)
		if err != nil {
			return err
		}

		storage, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer closeStorage(storage)

		if err := snapshot.Import(cmd.Context(), storage, r, format); err != nil {
			return err
		}
		slog.Info("snapshot imported", "source", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().StringVarP(&snapshotFormat, "format", "f", "", "Snapshot format: json or yaml (default: from the file extension)")
	}
}
