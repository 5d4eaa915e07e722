package mcp

import (
	"log/slog"

	"github.com/claude/repscope/internal/analytics"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(svc *analytics.Service, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepScope", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepScope workout analytics server. Summarize recent training sessions, analyze strength progression toward goals, and resolve exercise names."),
	)

	h := &handlers{svc: svc, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolSummarizeWorkouts, Handler: h.summarizeWorkouts},
		server.ServerTool{Tool: toolAnalyzeLifts, Handler: h.analyzeLifts},
		server.ServerTool{Tool: toolResolveExercise, Handler: h.resolveExercise},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	svc *analytics.Service
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"repscope://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercise templates known to the tracking service, with ids and display names"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"repscope://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Summaries of the five most recent workouts"),
	mcp.WithMIMEType("application/json"),
)
