package main

import (
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all workouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := cli.loader.Workouts(cmd.Context())
		if err != nil {
			return describeError(err)
		}
		renderWorkouts(os.Stdout, ws)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
