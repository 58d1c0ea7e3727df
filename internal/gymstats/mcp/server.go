package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the workoutzones tools: schema, period
// stats, recovery state, workouts list, recommendations and the exercise catalog.
// Served by the backend at /mcp and by cmd/workoutzones_mcp over stdio.
func NewServer(schemaRepo SchemaRepo, workoutsService WorkoutsService, catalogLister CatalogLister) *mcp.Server {
	svc := NewContextService(schemaRepo, workoutsService, catalogLister)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "workoutzones",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workoutzones_context",
		Description: "Returns the DB schema of the workout tables (exercise_catalog, workout): table names, columns, types, nullable, default.",
	}, h.GetWorkoutzonesContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_period_stats",
		Description: "Returns aggregated stats of a user's workouts in a date range: workouts count, total volume, average intensity, count per workout type, normalized zone loads and a timeline. Args: user_id, from_date, to_date (YYYY-MM-DD); optional: period label.",
	}, h.GetPeriodStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_recovery_state",
		Description: "Returns the recovery state of every muscle zone for a user right now: decayed intensity, peak load, days since last trained and phase (untrained, destroyed, recovering, almost_ready, recovered). Args: user_id; optional: window_days (1-60).",
	}, h.GetRecoveryStateTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_workouts",
		Description: "Returns a user's workouts in a date range, oldest first, with exercises and computed zone loads. Args: user_id, from_date, to_date (YYYY-MM-DD).",
	}, h.ListWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_recommendations",
		Description: "Returns up to five training recommendations (imbalances, under or overloaded zones, intensity, volume drop) for a user's workouts in a date range. Args: user_id, from_date, to_date (YYYY-MM-DD).",
	}, h.GetRecommendationsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_catalog",
		Description: "Returns the exercise catalog: id, title, category, keywords, muscle zones and base intensity of every exercise.",
	}, h.GetExerciseCatalogTool())

	return s
}
