package mcp

import (
	"log/slog"

	"github.com/claude/fitfeed/internal/home"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(src workouts.Provider, dash *home.Builder, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitFeed", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitFeed workout catalog. List workouts, read a workout's exercise plan, and check the home dashboard with streak and weekly progress."),
	)

	h := &handlers{src: src, home: dash, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetWorkoutDetail, Handler: h.getWorkoutDetail},
		server.ServerTool{Tool: toolGetHome, Handler: h.getHome},
	)

	s.AddResources(
		server.ServerResource{Resource: resWorkouts, Handler: h.workoutsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	src  workouts.Provider
	home *home.Builder
	log  *slog.Logger
}

var resWorkouts = mcp.NewResource(
	"fitfeed://workouts",
	"Workouts",
	mcp.WithResourceDescription("The full workout catalog in display order"),
	mcp.WithMIMEType("application/json"),
)
