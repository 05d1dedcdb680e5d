package main

import (
	"os"

	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show your streak, weekly progress and what to do next",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cli.home()
		if err != nil {
			return err
		}
		d, err := b.Build(cmd.Context())
		if err != nil {
			return describeError(err)
		}
		renderHome(os.Stdout, d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(homeCmd)
}
