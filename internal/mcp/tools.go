package mcp

import (
	"context"

	"github.com/claude/repscope/internal/analytics"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolSummarizeWorkouts = mcp.NewTool("summarize_recent_workouts",
	mcp.WithDescription("Summarize the most recent workouts: date, duration, exercises with their sets and the best (heaviest non-warmup) set per exercise. Optionally filter to exercises whose names contain a substring."),
	mcp.WithNumber("count", mcp.Description("Number of recent workouts to summarize (1-10). Defaults to 5.")),
	mcp.WithString("exercise_filter", mcp.Description("Case-insensitive substring filter on exercise names (e.g. 'squat'). Workouts with no matching exercises are omitted.")),
)

var toolAnalyzeLifts = mcp.NewTool("analyze_lift_progression",
	mcp.WithDescription("Analyze strength progression for one or more exercises: current estimated 1RM, trend over the lookback window (improving/plateau/declining), personal records, recent sessions, and progress toward an optional goal weight."),
	mcp.WithArray("exercises", mcp.Required(),
		mcp.Description("Exercises to analyze. Each item: {name: search term, goal_kg: optional target 1RM in kg}."),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":    map[string]any{"type": "string", "description": "Exercise name search term (e.g. 'bench press')"},
				"goal_kg": map[string]any{"type": "number", "description": "Optional goal 1RM weight in kg"},
			},
			"required": []string{"name"},
		}),
	),
	mcp.WithNumber("lookback_days", mcp.Description("History window in days (7-365). Defaults to 90.")),
)

var toolResolveExercise = mcp.NewTool("resolve_exercise_name",
	mcp.WithDescription("Resolve an exercise template id to its display name. Returns the id unchanged when the catalog has no entry for it."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Exercise template id")),
)

// --- Tool handlers ---

func (h *handlers) summarizeWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := req.GetInt("count", 5)
	if count < 1 || count > analytics.MaxSummaryCount {
		return mcp.NewToolResultError("count must be between 1 and 10"), nil
	}
	filter := req.GetString("exercise_filter", "")

	summaries, err := h.svc.SummarizeRecentWorkouts(ctx, count, filter)
	if err != nil {
		h.log.Error("mcp summarize_recent_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) analyzeLifts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Exercises    []analytics.LiftGoal `json:"exercises"`
		LookbackDays int                  `json:"lookback_days"`
	}
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	if len(args.Exercises) == 0 {
		return mcp.NewToolResultError("exercises must contain at least one entry"), nil
	}
	for _, goal := range args.Exercises {
		if goal.Name == "" {
			return mcp.NewToolResultError("every exercise needs a name"), nil
		}
	}

	results, err := h.svc.AnalyzeLiftProgression(ctx, args.Exercises, args.LookbackDays)
	if err != nil {
		h.log.Error("mcp analyze_lift_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(results)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) resolveExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	name, err := h.svc.ResolveExerciseName(ctx, id)
	if err != nil {
		h.log.Error("mcp resolve_exercise_name", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	return mcp.NewToolResultText(name), nil
}
