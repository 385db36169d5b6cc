package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	noteTitle   string
	noteContent string
	noteJSON    bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()
		return h.SaveNote(cmd.Context(), noteTitle, noteContent)
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace a note's title and/or content",
	Long: `Replace a note's title and/or content. Fields whose flag is not given
keep their current value.`,
	Args: cobra.ExactArgs(1),
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

		ctx := cmd.Context()
		if err := h.EditNote(ctx, id); err != nil {
			return err
		}
		doc := h.Document()
		if doc.Editing == nil {
			return fmt.Errorf("note %d not found", id)
		}

		title, content := doc.Editing.Title, doc.Editing.Content
		if cmd.Flags().Changed("title") {
			title = noteTitle
		}
		if cmd.Flags().Changed("content") {
			content = noteContent
		}
		if err := h.SaveNote(ctx, title, content); err != nil {
			return err
		}
		if _, editing := h.Editing(); editing {
			// The save was dropped: both fields ended up blank.
			return fmt.Errorf("note %d: title and content cannot both be empty", id)
		}
		return nil
	},
}

var noteRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a note",
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
		return h.DeleteNote(cmd.Context(), id)
	},
}

var noteLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List notes",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		notes := h.Notes()
		out := cmd.OutOrStdout()
		if noteJSON {
			return printJSON(out, notes)
		}
		for _, n := range notes {
			title := n.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Fprintf(out, "%d %s\n", n.ID, title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd, noteEditCmd, noteRmCmd, noteLsCmd)
	for _, c := range []*cobra.Command{noteAddCmd, noteEditCmd} {
		c.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
		c.Flags().StringVarP(&noteContent, "content", "c", "", "Note content")
	}
	noteLsCmd.Flags().BoolVar(&noteJSON, "json", false, "Output in JSON format")
}
