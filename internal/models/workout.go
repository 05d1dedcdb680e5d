package models

import (
	"slices"
	"time"
)

// Workout is the summary record shown in workout lists.
type Workout struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Duration   string `json:"duration"`
	Type       string `json:"type,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Completed  string `json:"completed,omitempty"`
	Image      string `json:"image"`
}

// Exercise is one line of a workout plan. All fields are display strings
// ("3 sets", "30 seconds").
type Exercise struct {
	Name string `json:"name"`
	Sets string `json:"sets"`
	Reps string `json:"reps"`
	Rest string `json:"rest"`
}

// WorkoutDetail is a workout with everything the detail screen shows.
type WorkoutDetail struct {
	Workout
	Calories    int        `json:"calories"`
	Description string     `json:"description"`
	Exercises   []Exercise `json:"exercises"`
	Equipment   []string   `json:"equipment"`
	Instructor  string     `json:"instructor"`
	Rating      float64    `json:"rating"`
	Completions int        `json:"completions"`
}

// Clone returns a deep copy of d.
func (d WorkoutDetail) Clone() WorkoutDetail {
	d.Exercises = slices.Clone(d.Exercises)
	d.Equipment = slices.Clone(d.Equipment)
	return d
}

// Completion is one finished workout session.
type Completion struct {
	ID          int64     `json:"id,omitempty"`
	WorkoutID   int       `json:"workout_id"`
	Title       string    `json:"title,omitempty"`
	Minutes     int       `json:"minutes"`
	CompletedAt time.Time `json:"completed_at"`
}
