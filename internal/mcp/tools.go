package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/claude/fitfeed/internal/models"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/mark3labs/mcp-go/mcp"
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List workouts with title, duration, type, difficulty and image. Filters are case-insensitive exact matches."),
	mcp.WithString("type", mcp.Description("Workout type (e.g. Cardio, Strength, Core, Flexibility)")),
	mcp.WithString("difficulty", mcp.Description("Difficulty (e.g. Beginner, Intermediate, Advanced)")),
)

var toolGetWorkoutDetail = mcp.NewTool("get_workout_detail",
	mcp.WithDescription("Get one workout with its description, equipment, instructor and exercise plan (sets, reps, rest)."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Workout ID from get_workouts")),
)

var toolGetHome = mcp.NewTool("get_home",
	mcp.WithDescription("Get the home dashboard: current streak, minutes trained this week against the weekly goal, recently completed workouts and the suggested next workout."),
)

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, err := h.src.GetWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	ws = filterWorkouts(ws, req.GetString("type", ""), req.GetString("difficulty", ""))

	result, err := mcp.NewToolResultJSON(ws)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	d, err := h.src.GetWorkoutDetail(ctx, id)
	var se *workouts.ServerError
	if errors.Is(err, workouts.ErrNotFound) || (errors.As(err, &se) && se.StatusCode == 404) {
		return mcp.NewToolResultError("no workout with that id; call get_workouts for valid ids"), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout_detail", "id", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(d)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHome(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := h.home.Build(ctx)
	if err != nil {
		h.log.Error("mcp get_home", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(d)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func filterWorkouts(ws []models.Workout, typ, difficulty string) []models.Workout {
	out := make([]models.Workout, 0, len(ws))
	for _, w := range ws {
		if typ != "" && !strings.EqualFold(w.Type, typ) {
			continue
		}
		if difficulty != "" && !strings.EqualFold(w.Difficulty, difficulty) {
			continue
		}
		out = append(out, w)
	}
	return out
}
