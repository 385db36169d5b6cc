package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var todoJSON bool

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage the to-do list",
}

var todoAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Append a to-do",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()
		return h.AddTodo(cmd.Context(), strings.Join(args, " "))
	},
}

var todoToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a to-do between open and done",
	Args:  cobra.ExactArgs(1),
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
		return h.ToggleTodo(cmd.Context(), id)
	},
}

var todoRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a to-do",
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
		return h.DeleteTodo(cmd.Context(), id)
	},
}

var todoLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List to-dos",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		todos := h.Todos()
		out := cmd.OutOrStdout()
		if todoJSON {
			return printJSON(out, todos)
		}
		for _, t := range todos {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(out, "[%s] %d %s\n", mark, t.ID, t.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(todoCmd)
	todoCmd.AddCommand(todoAddCmd, todoToggleCmd, todoRmCmd, todoLsCmd)
	todoLsCmd.Flags().BoolVar(&todoJSON, "json", false, "Output in JSON format")
}
