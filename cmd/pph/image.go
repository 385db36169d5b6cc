package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	imageCaption string
	imageJSON    bool
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage the image gallery",
}

var imageAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Append an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()
		return h.AddImage(cmd.Context(), args[0], imageCaption)
	},
}

var imageRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove an image",
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
		return h.DeleteImage(cmd.Context(), id)
	},
}

var imageLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List images",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		images := h.Images()
		out := cmd.OutOrStdout()
		if imageJSON {
			return printJSON(out, images)
		}
		for _, img := range images {
			if img.Caption == "" {
				fmt.Fprintf(out, "%d %s\n", img.ID, img.URL)
				continue
			}
			fmt.Fprintf(out, "%d %s %q\n", img.ID, img.URL, img.Caption)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageAddCmd, imageRmCmd, imageLsCmd)
	imageAddCmd.Flags().StringVarP(&imageCaption, "caption", "c", "", "Image caption")
	imageLsCmd.Flags().BoolVar(&imageJSON, "json", false, "Output in JSON format")
}
