package models

import (
	"errors"
	"fmt"
	"net/url"
)

// ValidateWorkouts checks required fields, id uniqueness and image URLs.
// All violations are reported together.
func ValidateWorkouts(ws []Workout) error {
	var errs []error
	seen := make(map[int]int, len(ws))
	for i, w := range ws {
		errs = append(errs, validateWorkout(i, w)...)
		if j, dup := seen[w.ID]; dup {
			errs = append(errs, fmt.Errorf("workout[%d]: id %d already used by workout[%d]", i, w.ID, j))
			continue
		}
		seen[w.ID] = i
	}
	return errors.Join(errs...)
}

// ValidateDetails runs ValidateWorkouts on the embedded summaries and also
// requires every exercise to be named.
func ValidateDetails(ds []WorkoutDetail) error {
	summaries := make([]Workout, len(ds))
	var errs []error
	for i, d := range ds {
		summaries[i] = d.Workout
		for j, ex := range d.Exercises {
			if ex.Name == "" {
				errs = append(errs, fmt.Errorf("workout[%d]: exercise[%d]: name is required", i, j))
			}
		}
	}
	if err := ValidateWorkouts(summaries); err != nil {
		errs = append([]error{err}, errs...)
	}
	return errors.Join(errs...)
}

func validateWorkout(i int, w Workout) []error {
	var errs []error
	if w.ID <= 0 {
		errs = append(errs, fmt.Errorf("workout[%d]: id must be positive, got %d", i, w.ID))
	}
	if w.Title == "" {
		errs = append(errs, fmt.Errorf("workout[%d]: title is required", i))
	}
	if w.Duration == "" {
		errs = append(errs, fmt.Errorf("workout[%d]: duration is required", i))
	}
	if w.Image == "" {
		errs = append(errs, fmt.Errorf("workout[%d]: image is required", i))
	} else if u, err := url.Parse(w.Image); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("workout[%d]: image %q is not an http(s) URL", i, w.Image))
	}
	return errs
}
