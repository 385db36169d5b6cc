package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pph/pkg/core"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print storage changes as they happen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer closeStorage(storage)

		w, ok := storage.(core.Watchable)
		if !ok {
			return errors.New("the selected adapter does not support watching")
		}
		events, err := w.Watch(cmd.Context(), watchPattern)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for e := range events {
			fmt.Fprintln(out, e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchPattern, "pattern", "p", "pph_*", "Key pattern (doublestar syntax)")
}
