package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/fitfeed/internal/activity"
	"github.com/claude/fitfeed/internal/models"
	"github.com/spf13/cobra"
)

var logMinutes int

var logCmd = &cobra.Command{
	Use:   "log <id>",
	Short: "Record a finished workout",
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

		store, err := cli.activity()
		if err != nil {
			return err
		}
		c, err := store.Record(cmd.Context(), models.Completion{
			WorkoutID: d.ID,
			Title:     d.Title,
			Minutes:   logMinutes,
		})
		if err != nil {
			return err
		}

		recent, err := store.CompletionsSince(cmd.Context(), c.CompletedAt.AddDate(0, 0, -60))
		if err != nil {
			return err
		}
		days := activity.Streak(activity.CompletionDays(recent), c.CompletedAt.Local())
		fmt.Fprintf(os.Stdout, "%s %s, %d %s\n", successText("Logged"), d.Title, c.Minutes, cli.cfg.Home.Unit)
		fmt.Fprintf(os.Stdout, "%s %d days. %s\n", accentText("Streak:"), days, activity.StreakMessage(days))
		return nil
	},
}

func init() {
	logCmd.Flags().IntVar(&logMinutes, "minutes", 0, "minutes trained (required)")
	logCmd.MarkFlagRequired("minutes")
	rootCmd.AddCommand(logCmd)
}
