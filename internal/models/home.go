package models

// Streak is the consecutive-days indicator on the home screen.
type Streak struct {
	Days    int    `json:"days"`
	Message string `json:"message"`
}

// WeeklyTraining is progress toward the weekly training goal.
type WeeklyTraining struct {
	Current int     `json:"current"`
	Goal    int     `json:"goal"`
	Unit    string  `json:"unit"`
	Percent float64 `json:"percent"`
}

// Dashboard is everything the home screen renders.
type Dashboard struct {
	Streak Streak         `json:"streak"`
	Weekly WeeklyTraining `json:"weekly"`
	Recent []Workout      `json:"recent"`
	Next   *Workout       `json:"next"`
}
