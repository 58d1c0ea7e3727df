package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/workoutzones/internal/config"
	"github.com/2beens/workoutzones/internal/gymstats/period"
	"github.com/2beens/workoutzones/pkg"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}

// parseRange reads YYYY-MM-DD bounds, to covers its whole day.
func parseRange(fromDate, toDate string) (time.Time, time.Time, *mcp.CallToolResult) {
	from, err := pkg.ParseDate(fromDate)
	if err != nil {
		return time.Time{}, time.Time{}, errorResult("Invalid from_date: use YYYY-MM-DD")
	}
	to, err := pkg.ParseDate(toDate)
	if err != nil {
		return time.Time{}, time.Time{}, errorResult("Invalid to_date: use YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errorResult("Invalid range: to_date is before from_date")
	}
	return from, pkg.EndOfDay(to), nil
}

func checkUserID(userID int) *mcp.CallToolResult {
	if userID <= 0 {
		return errorResult("Invalid user_id: must be a positive integer")
	}
	return nil
}

// GetWorkoutzonesContextTool returns the MCP tool handler for get_workoutzones_context.
func (h *Handler) GetWorkoutzonesContextTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

// PeriodStatsInput is the input for get_period_stats.
type PeriodStatsInput struct {
	UserID   int    `json:"user_id" jsonschema:"Id of the user whose workouts are aggregated"`
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
	Period   string `json:"period,omitempty" jsonschema:"Label echoed in the result (e.g. week, month), defaults to custom"`
}

// GetPeriodStatsTool returns the MCP tool handler for get_period_stats.
func (h *Handler) GetPeriodStatsTool() func(context.Context, *mcp.CallToolRequest, PeriodStatsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PeriodStatsInput) (*mcp.CallToolResult, any, error) {
		if res := checkUserID(in.UserID); res != nil {
			return res, nil, nil
		}
		from, to, res := parseRange(in.FromDate, in.ToDate)
		if res != nil {
			return res, nil, nil
		}
		label := in.Period
		if label == "" {
			label = period.DefaultLabel
		}

		stats, err := h.service.PeriodStats(ctx, in.UserID, from, to, label)
		if err != nil {
			log.Errorf("mcp, period stats for user %d: %s", in.UserID, err)
			return errorResult("Error computing period stats: " + err.Error()), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

// RecoveryStateInput is the input for get_recovery_state.
type RecoveryStateInput struct {
	UserID     int `json:"user_id" jsonschema:"Id of the user"`
	WindowDays int `json:"window_days,omitempty" jsonschema:"Trailing window in days (1-60), defaults to the server setting"`
}

// GetRecoveryStateTool returns the MCP tool handler for get_recovery_state.
func (h *Handler) GetRecoveryStateTool() func(context.Context, *mcp.CallToolRequest, RecoveryStateInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RecoveryStateInput) (*mcp.CallToolResult, any, error) {
		if res := checkUserID(in.UserID); res != nil {
			return res, nil, nil
		}
		if in.WindowDays < 0 || in.WindowDays > config.MaxRecoveryWindowDays() {
			return errorResult(fmt.Sprintf("Invalid window_days: use 1-%d", config.MaxRecoveryWindowDays())), nil, nil
		}

		snapshot, err := h.service.RecoveryState(ctx, in.UserID, in.WindowDays)
		if err != nil {
			log.Errorf("mcp, recovery state for user %d: %s", in.UserID, err)
			return errorResult("Error computing recovery state: " + err.Error()), nil, nil
		}
		return jsonResult(snapshot), nil, nil
	}
}

// RangeInput is the input for list_workouts and get_recommendations.
type RangeInput struct {
	UserID   int    `json:"user_id" jsonschema:"Id of the user"`
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
}

// ListWorkoutsTool returns the MCP tool handler for list_workouts.
func (h *Handler) ListWorkoutsTool() func(context.Context, *mcp.CallToolRequest, RangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RangeInput) (*mcp.CallToolResult, any, error) {
		if res := checkUserID(in.UserID); res != nil {
			return res, nil, nil
		}
		from, to, res := parseRange(in.FromDate, in.ToDate)
		if res != nil {
			return res, nil, nil
		}

		list, err := h.service.ListWorkouts(ctx, in.UserID, from, to)
		if err != nil {
			return errorResult("Error listing workouts: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// GetRecommendationsTool returns the MCP tool handler for get_recommendations.
func (h *Handler) GetRecommendationsTool() func(context.Context, *mcp.CallToolRequest, RangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RangeInput) (*mcp.CallToolResult, any, error) {
		if res := checkUserID(in.UserID); res != nil {
			return res, nil, nil
		}
		from, to, res := parseRange(in.FromDate, in.ToDate)
		if res != nil {
			return res, nil, nil
		}

		recs, err := h.service.Recommendations(ctx, in.UserID, from, to)
		if err != nil {
			return errorResult("Error computing recommendations: " + err.Error()), nil, nil
		}
		return jsonResult(recs), nil, nil
	}
}

// GetExerciseCatalogTool returns the MCP tool handler for get_exercise_catalog.
func (h *Handler) GetExerciseCatalogTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ExerciseCatalog(ctx)
		if err != nil {
			return errorResult("Error fetching exercise catalog: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}
