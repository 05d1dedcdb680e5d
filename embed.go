package fitfeed

import "embed"

// DataFS holds the bundled workout dataset (data/workouts.json and
// data/workout_details.json).
//
//go:embed data/*.json
var DataFS embed.FS
