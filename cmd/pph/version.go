package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pph"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pph version %s\n", pph.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
