package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	linkTitle string
	linkJSON  bool
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage bookmarks",
}

var linkAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Append a link; the title defaults to the URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()
		return h.AddLink(cmd.Context(), linkTitle, args[0])
	},
}

var linkRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a link",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()
		return h.DeleteLink(cmd.Context(), id)
	},
}

var linkLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List links",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		links := h.Links()
		out := cmd.OutOrStdout()
		if linkJSON {
			return printJSON(out, links)
		}
		for _, l := range links {
			fmt.Fprintf(out, "%d %s <%s>\n", l.ID, l.Title, l.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.AddCommand(linkAddCmd, linkRmCmd, linkLsCmd)
	linkAddCmd.Flags().StringVarP(&linkTitle, "title", "t", "", "Link title")
	linkLsCmd.Flags().BoolVar(&linkJSON, "json", false, "Output in JSON format")
}
