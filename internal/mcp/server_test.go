package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/claude/fitfeed/internal/home"
	"github.com/claude/fitfeed/internal/models"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/mark3labs/mcp-go/mcp"
)

var catalog = []models.Workout{
	{ID: 1, Title: "HIIT", Duration: "30 min", Type: "Cardio", Difficulty: "Advanced", Image: "https://example.com/1.jpg"},
	{ID: 2, Title: "Strength", Duration: "45 min", Type: "Strength", Difficulty: "Intermediate", Image: "https://example.com/2.jpg"},
	{ID: 3, Title: "Run", Duration: "40 min", Type: "Cardio", Difficulty: "Intermediate", Image: "https://example.com/3.jpg"},
}

func newHandlers() *handlers {
	ds := workouts.NewDataset(catalog, []models.WorkoutDetail{{Workout: catalog[0], Calories: 350}})
	src := workouts.NewLocalSource(ds, 0)
	return &handlers{
		src:  src,
		home: &home.Builder{Workouts: src},
		log:  slog.New(slog.DiscardHandler),
	}
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func decodeText(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			if err := json.Unmarshal([]byte(tc.Text), v); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			return
		}
	}
	t.Fatal("result has no text content")
}

// TestGetWorkoutsFilters verifies type and difficulty filters match case-insensitively.
func TestGetWorkoutsFilters(t *testing.T) {
	h := newHandlers()

	tests := []struct {
		args map[string]any
		want []int
	}{
		{map[string]any{}, []int{1, 2, 3}},
		{map[string]any{"type": "cardio"}, []int{1, 3}},
		{map[string]any{"type": "Cardio", "difficulty": "INTERMEDIATE"}, []int{3}},
		{map[string]any{"type": "Yoga"}, []int{}},
	}
	for _, tt := range tests {
		res, err := h.getWorkouts(context.Background(), callTool("get_workouts", tt.args))
		if err != nil {
			t.Fatalf("getWorkouts: %v", err)
		}
		if res.IsError {
			t.Fatalf("getWorkouts(%v) returned a tool error", tt.args)
		}
		var got []models.Workout
		decodeText(t, res, &got)
		ids := []int{}
		for _, w := range got {
			ids = append(ids, w.ID)
		}
		if len(ids) != len(tt.want) {
			t.Errorf("getWorkouts(%v) ids = %v, want %v", tt.args, ids, tt.want)
			continue
		}
		for i := range ids {
			if ids[i] != tt.want[i] {
				t.Errorf("getWorkouts(%v) ids = %v, want %v", tt.args, ids, tt.want)
				break
			}
		}
	}
}

// TestGetWorkoutDetail verifies a known id returns the detail.
func TestGetWorkoutDetail(t *testing.T) {
	h := newHandlers()
	res, err := h.getWorkoutDetail(context.Background(), callTool("get_workout_detail", map[string]any{"id": float64(1)}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatal("unexpected tool error")
	}
	var d models.WorkoutDetail
	decodeText(t, res, &d)
	if d.ID != 1 || d.Calories != 350 {
		t.Errorf("detail = %+v, want workout 1 with 350 calories", d)
	}
}

// TestGetWorkoutDetailErrors verifies unknown and missing ids produce tool errors.
func TestGetWorkoutDetailErrors(t *testing.T) {
	h := newHandlers()
	for _, args := range []map[string]any{
		{"id": float64(99)},
		{},
	} {
		res, err := h.getWorkoutDetail(context.Background(), callTool("get_workout_detail", args))
		if err != nil {
			t.Fatalf("getWorkoutDetail(%v): %v", args, err)
		}
		if !res.IsError {
			t.Errorf("getWorkoutDetail(%v) IsError = false, want true", args)
		}
	}
}

// TestGetHome verifies the dashboard tool returns the first workout as next.
func TestGetHome(t *testing.T) {
	h := newHandlers()
	res, err := h.getHome(context.Background(), callTool("get_home", nil))
	if err != nil {
		t.Fatal(err)
	}
	var d models.Dashboard
	decodeText(t, res, &d)
	if d.Next == nil || d.Next.ID != 1 {
		t.Errorf("next = %+v, want workout 1", d.Next)
	}
	if d.Streak.Days != 0 {
		t.Errorf("streak = %d, want 0", d.Streak.Days)
	}
}

// TestWorkoutsResource verifies the resource serves the catalog as JSON.
func TestWorkoutsResource(t *testing.T) {
	h := newHandlers()
	var req mcp.ReadResourceRequest
	req.Params.URI = "fitfeed://workouts"

	contents, err := h.workoutsResource(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] is %T, want TextResourceContents", contents[0])
	}
	var got []models.Workout
	if err := json.Unmarshal([]byte(tc.Text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(catalog) {
		t.Errorf("len = %d, want %d", len(got), len(catalog))
	}
}

// TestNewRegistersTools verifies the server builds.
func TestNewRegistersTools(t *testing.T) {
	h := newHandlers()
	s := New(h.src, h.home, "test", h.log)
	if s == nil {
		t.Fatal("New returned nil")
	}
}
