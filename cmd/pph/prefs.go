package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var avatarClear bool

var tabCmd = &cobra.Command{
	Use:   "tab [todos|notes|links|images]",
	Short: "Show or switch the active tab",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		if len(args) == 1 {
			if err := h.SwitchTab(cmd.Context(), args[0]); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), h.Document().ActiveTab)
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the current theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()
		fmt.Fprintln(cmd.OutOrStdout(), h.Document().Theme)
		return nil
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between the dark and light theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		theme, err := h.ToggleTheme(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme)
		return nil
	},
}

var avatarCmd = &cobra.Command{
	Use:   "avatar [url]",
	Short: "Change the avatar image",
	Long: `Change the avatar image. Without an argument the URL is prompted for;
interrupting the prompt leaves the avatar unchanged. An empty answer, or
--clear, restores the default avatar.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var url *string
		switch {
		case avatarClear:
			empty := ""
			url = &empty
		case len(args) == 1:
			url = &args[0]
		default:
			answer, err := promptAvatar(cmd)
			if err != nil {
				return err
			}
			url = answer
		}

		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		if err := h.ChangeAvatar(cmd.Context(), url); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h.Document().Avatar)
		return nil
	},
}

// promptAvatar asks for a URL. A nil answer means the prompt was cancelled.
func promptAvatar(cmd *cobra.Command) (*string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "Avatar URL: ",
		InterruptPrompt: "^C",
		EOFPrompt:       "cancelled",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	line = strings.TrimSpace(line)
	return &line, nil
}

func init() {
	rootCmd.AddCommand(tabCmd, themeCmd, avatarCmd)
	themeCmd.AddCommand(themeToggleCmd)
	avatarCmd.Flags().BoolVar(&avatarClear, "clear", false, "Restore the default avatar")
}
