package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
// loc is the user's home timezone; "today" in every tool resolves in it.
func New(ds DataSource, version string, loc *time.Location, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronQuant", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronQuant workout log server. Query parsed workouts, daily condition entries, the training profile, and the three-agent advice council. All data belongs to a single user."),
	)

	h := &handlers{ds: ds, loc: loc, now: time.Now, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetLatestWorkout, Handler: h.getLatestWorkout},
		server.ServerTool{Tool: toolGetConditions, Handler: h.getConditions},
		server.ServerTool{Tool: toolGetProfile, Handler: h.getProfile},
		server.ServerTool{Tool: toolGetCouncilAdvice, Handler: h.getCouncilAdvice},
		server.ServerTool{Tool: toolParseWorkoutLine, Handler: h.parseWorkoutLine},
		server.ServerTool{Tool: toolGetWeeklyReport, Handler: h.getWeeklyReport},
		server.ServerTool{Tool: toolGetMonthlyReport, Handler: h.getMonthlyReport},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resProfile, Handler: h.profile},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	loc *time.Location
	now func() time.Time
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"ironquant://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Parsed workouts from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resProfile = mcp.NewResource(
	"ironquant://profile",
	"Training Profile",
	mcp.WithResourceDescription("Goal mode, body weight, estimated big-3 1RMs, and current streak"),
	mcp.WithMIMEType("application/json"),
)
