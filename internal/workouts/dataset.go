package workouts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"slices"

	"github.com/claude/fitfeed/internal/models"
)

// Dataset file names, relative to the root of the dataset filesystem.
const (
	WorkoutsFile = "data/workouts.json"
	DetailsFile  = "data/workout_details.json"
)

// Dataset is the parsed, in-memory bundled dataset. It is never mutated after
// loading; accessors hand out copies.
type Dataset struct {
	workouts []models.Workout
	details  map[int]models.WorkoutDetail
	order    []int
}

// LoadDataset parses the workout list and, when present, the detail file from
// fsys. Records are trusted as-is; use models.ValidateWorkouts to check them.
func LoadDataset(fsys fs.FS) (*Dataset, error) {
	var ws []models.Workout
	if err := readJSON(fsys, WorkoutsFile, &ws); err != nil {
		return nil, err
	}

	var ds []models.WorkoutDetail
	if _, err := fs.Stat(fsys, DetailsFile); err == nil {
		if err := readJSON(fsys, DetailsFile, &ds); err != nil {
			return nil, err
		}
	}
	return NewDataset(ws, ds), nil
}

// NewDataset builds a Dataset from already-decoded records. The slices are
// copied.
func NewDataset(ws []models.Workout, ds []models.WorkoutDetail) *Dataset {
	d := &Dataset{
		workouts: slices.Clone(ws),
		details:  make(map[int]models.WorkoutDetail, len(ds)),
	}
	for _, det := range ds {
		if _, ok := d.details[det.ID]; !ok {
			d.order = append(d.order, det.ID)
		}
		d.details[det.ID] = det.Clone()
	}
	return d
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// Workouts returns a copy of the workout list in dataset order.
func (d *Dataset) Workouts() []models.Workout {
	return slices.Clone(d.workouts)
}

// Detail returns a deep copy of the detail with the given id.
func (d *Dataset) Detail(id int) (*models.WorkoutDetail, bool) {
	det, ok := d.details[id]
	if !ok {
		return nil, false
	}
	c := det.Clone()
	return &c, true
}

// Details returns deep copies of all details in dataset order.
func (d *Dataset) Details() []models.WorkoutDetail {
	out := make([]models.WorkoutDetail, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.details[id].Clone())
	}
	return out
}

// Catalog returns one detail per workout in list order. A workout with no
// detail record gets a detail carrying only its summary fields.
func (d *Dataset) Catalog() []models.WorkoutDetail {
	out := make([]models.WorkoutDetail, 0, len(d.workouts))
	for _, w := range d.workouts {
		det, ok := d.details[w.ID]
		if !ok {
			out = append(out, models.WorkoutDetail{Workout: w})
			continue
		}
		det = det.Clone()
		det.Workout = w
		out = append(out, det)
	}
	return out
}
