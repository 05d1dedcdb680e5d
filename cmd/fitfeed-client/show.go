package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a workout with its exercise plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid workout id %q", args[0])
		}
		d, err := cli.loader.WorkoutDetail(cmd.Context(), id)
		if err != nil {
			return describeError(err)
		}
		renderDetail(os.Stdout, d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
