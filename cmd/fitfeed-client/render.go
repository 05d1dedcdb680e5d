package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/claude/fitfeed/internal/models"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/fatih/color"
)

var (
	titleText   = color.New(color.FgGreen, color.Bold).SprintFunc()
	accentText  = color.New(color.FgCyan).SprintFunc()
	mutedText   = color.New(color.FgHiBlack).SprintFunc()
	warnText    = color.New(color.FgYellow).SprintFunc()
	errorText   = color.New(color.FgRed, color.Bold).SprintFunc()
	successText = color.New(color.FgGreen).SprintFunc()
)

const barWidth = 30

func renderWorkouts(w io.Writer, ws []models.Workout) {
	if len(ws) == 0 {
		fmt.Fprintln(w, mutedText("No workouts."))
		return
	}
	for _, wo := range ws {
		fmt.Fprintf(w, "%s %s %s\n", accentText(fmt.Sprintf("%3d", wo.ID)), titleText(wo.Title), mutedText(wo.Duration))
		if tags := joinNonEmpty(wo.Type, wo.Difficulty); tags != "" {
			fmt.Fprintf(w, "    %s\n", tags)
		}
	}
}

func renderDetail(w io.Writer, d *models.WorkoutDetail) {
	fmt.Fprintln(w, titleText(d.Title))
	fmt.Fprintf(w, "%s %s\n", accentText("Duration:"), d.Duration)
	if tags := joinNonEmpty(d.Type, d.Difficulty); tags != "" {
		fmt.Fprintf(w, "%s %s\n", accentText("Type:"), tags)
	}
	if d.Calories > 0 {
		fmt.Fprintf(w, "%s %d kcal\n", accentText("Calories:"), d.Calories)
	}
	if d.Instructor != "" {
		fmt.Fprintf(w, "%s %s\n", accentText("Instructor:"), d.Instructor)
	}
	if d.Rating > 0 {
		fmt.Fprintf(w, "%s %.1f (%d completions)\n", accentText("Rating:"), d.Rating, d.Completions)
	}
	if len(d.Equipment) > 0 {
		fmt.Fprintf(w, "%s %s\n", accentText("Equipment:"), strings.Join(d.Equipment, ", "))
	}
	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}
	if len(d.Exercises) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n", warnText("Exercises"))
	for i, e := range d.Exercises {
		fmt.Fprintf(w, "  %d. %-24s %-10s %-12s %s\n", i+1, e.Name, e.Sets, e.Reps, mutedText("rest "+e.Rest))
	}
}

func renderHome(w io.Writer, d *models.Dashboard) {
	fmt.Fprintf(w, "%s %d days\n", titleText("Streak:"), d.Streak.Days)
	fmt.Fprintf(w, "  %s\n\n", mutedText(d.Streak.Message))

	fmt.Fprintf(w, "%s %d/%d %s\n", titleText("This week:"), d.Weekly.Current, d.Weekly.Goal, d.Weekly.Unit)
	fmt.Fprintf(w, "  %s %3.0f%%\n\n", progressBar(d.Weekly.Percent, barWidth), d.Weekly.Percent)

	fmt.Fprintln(w, titleText("Recent:"))
	if len(d.Recent) == 0 {
		fmt.Fprintf(w, "  %s\n", mutedText("nothing yet"))
	}
	for _, r := range d.Recent {
		label := r.Completed
		if label == "" {
			label = r.Duration
		}
		fmt.Fprintf(w, "  %s %s\n", r.Title, mutedText(label))
	}

	if d.Next != nil {
		fmt.Fprintf(w, "\n%s %s %s\n", titleText("Up next:"), d.Next.Title, mutedText(fmt.Sprintf("(id %d, %s)", d.Next.ID, d.Next.Duration)))
	}
}

// progressBar draws percent (0-100) as a bar of width cells.
func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// describeError turns provider failures into messages a person can act on.
func describeError(err error) error {
	var se *workouts.ServerError
	var pe *workouts.ParseError
	var ne *workouts.NetworkError
	switch {
	case errors.Is(err, workouts.ErrNotFound), errors.As(err, &se) && se.StatusCode == 404:
		return fmt.Errorf("workout not found")
	case errors.As(err, &se):
		return fmt.Errorf("the workout server had a problem (%w)", err)
	case errors.As(err, &pe):
		return fmt.Errorf("the workout server sent something unreadable (%w)", err)
	case errors.As(err, &ne):
		return fmt.Errorf("could not reach the workout server (%w)", err)
	default:
		return err
	}
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " · ")
}
