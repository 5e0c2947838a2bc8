package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, calc Calculator, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("fittrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("fittrack workout calculator. Compute distance, average speed and calories for RUN, WLK and SWM sensor packages, and query previously computed workouts."),
	)

	h := &handlers{ds: ds, calc: calc, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolCalculateWorkout, Handler: h.calculateWorkout},
		server.ServerTool{Tool: toolListWorkoutTypes, Handler: h.listWorkoutTypes},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetWorkoutTotals, Handler: h.getWorkoutTotals},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resWorkoutTypes, Handler: h.workoutTypes},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds   DataSource
	calc Calculator
	log  *slog.Logger
}

// --- Resource definitions ---

var resWorkoutTypes = mcp.NewResource(
	"fittrack://workout_types",
	"Workout Types",
	mcp.WithResourceDescription("Supported type codes with their workout kind and positional parameters"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"fittrack://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts computed in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
