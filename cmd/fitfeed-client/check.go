package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	fitfeed "github.com/claude/fitfeed"
	"github.com/claude/fitfeed/internal/models"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate a workout dataset (default: the embedded one)",
	Long: `Validate a workout dataset.

With no argument the embedded dataset is checked. Otherwise dir is the
directory containing data/workouts.json and data/workout_details.json,
not the data directory itself.`,
	Example: "  fitfeed-client check .",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var fsys fs.FS = fitfeed.DataFS
		source := "embedded dataset"
		if len(args) == 1 {
			fsys = os.DirFS(args[0])
			source = args[0]
		}
		return checkDataset(fsys, source)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkDataset(fsys fs.FS, source string) error {
	ds, err := workouts.LoadDataset(fsys)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: expected %s inside it: %w", source, workouts.WorkoutsFile, err)
	}
	if err != nil {
		return err
	}

	err = errors.Join(
		models.ValidateWorkouts(ds.Workouts()),
		models.ValidateDetails(ds.Details()),
	)
	if err != nil {
		fmt.Fprintf(os.Stdout, "%s %s\n%v\n", errorText("INVALID"), source, err)
		return fmt.Errorf("%s failed validation", source)
	}
	fmt.Fprintf(os.Stdout, "%s %s: %d workouts, %d details\n",
		successText("OK"), source, len(ds.Workouts()), len(ds.Details()))
	return nil
}
