package activity

import (
	"fmt"
	"math"
	"time"

	"github.com/claude/fitfeed/internal/models"
)

// Streak counts consecutive local calendar days with at least one entry in
// days. The run ends today, or yesterday when nothing is logged today yet.
func Streak(days []time.Time, now time.Time) int {
	seen := make(map[time.Time]bool, len(days))
	for _, d := range days {
		seen[startOfDay(d.In(now.Location()))] = true
	}

	day := startOfDay(now)
	if !seen[day] {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for seen[day] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

// CompletionDays returns the completion timestamps of cs.
func CompletionDays(cs []models.Completion) []time.Time {
	out := make([]time.Time, len(cs))
	for i, c := range cs {
		out[i] = c.CompletedAt
	}
	return out
}

// WeekStart returns Monday 00:00 of the week containing now, in now's location.
func WeekStart(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	return startOfDay(now).AddDate(0, 0, -offset)
}

// WeeklyMinutes sums the minutes completed since WeekStart(now).
func WeeklyMinutes(cs []models.Completion, now time.Time) int {
	start := WeekStart(now)
	total := 0
	for _, c := range cs {
		if !c.CompletedAt.Before(start) && !c.CompletedAt.After(now) {
			total += c.Minutes
		}
	}
	return total
}

// RelativeLabel describes t relative to now the way the recent list shows it.
func RelativeLabel(t, now time.Time) string {
	t = t.In(now.Location())
	days := int(math.Round(startOfDay(now).Sub(startOfDay(t)).Hours() / 24))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 14:
		return "Last week"
	default:
		return t.Format("Jan 2")
	}
}

// StreakMessage is the encouragement line under the streak counter.
func StreakMessage(days int) string {
	if days == 0 {
		return "Start a streak today."
	}
	return "Keep it going! Rest days still count as long as you move."
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
