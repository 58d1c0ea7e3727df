package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/workoutzones/internal/gymstats/catalog"
	"github.com/2beens/workoutzones/internal/gymstats/period"
	"github.com/2beens/workoutzones/internal/gymstats/recommendations"
	"github.com/2beens/workoutzones/internal/gymstats/recovery"
	"github.com/2beens/workoutzones/internal/gymstats/workouts"
)

// WorkoutsService is the part of workouts.Service the tools read from.
type WorkoutsService interface {
	Stats(ctx context.Context, userID int, from, to time.Time, label string) (period.Stats, error)
	Recovery(ctx context.Context, userID, windowDays int) (recovery.Snapshot, error)
	ListBetween(ctx context.Context, userID int, from, to time.Time) ([]workouts.Workout, error)
	Recommendations(ctx context.Context, userID int, from, to time.Time) ([]recommendations.Recommendation, error)
}

// CatalogLister lists the exercise catalog.
type CatalogLister interface {
	List(ctx context.Context) ([]catalog.Exercise, error)
}

// contextService is what the Handler needs. Kept as an interface for tests.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	PeriodStats(ctx context.Context, userID int, from, to time.Time, label string) (period.Stats, error)
	RecoveryState(ctx context.Context, userID, windowDays int) (recovery.Snapshot, error)
	ListWorkouts(ctx context.Context, userID int, from, to time.Time) ([]workouts.Workout, error)
	Recommendations(ctx context.Context, userID int, from, to time.Time) ([]recommendations.Recommendation, error)
	ExerciseCatalog(ctx context.Context) ([]catalog.Exercise, error)
}

// ContextService serves the MCP tools from the workouts service and the catalog.
type ContextService struct {
	schema   SchemaRepo
	workouts WorkoutsService
	catalog  CatalogLister
}

func NewContextService(schemaRepo SchemaRepo, workoutsService WorkoutsService, catalogLister CatalogLister) *ContextService {
	return &ContextService{
		schema:   schemaRepo,
		workouts: workoutsService,
		catalog:  catalogLister,
	}
}

// GetSchema returns the workout tables schema as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetWorkoutColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatWorkoutSchema(cols), nil
}

func formatWorkoutSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Workoutzones DB Schema\n\nNo workout tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Workoutzones DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(workoutTables, ", ") + " (schema: public). ")
	b.WriteString("workout.zones_load holds normalized zone loads in [0, 1].\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) PeriodStats(ctx context.Context, userID int, from, to time.Time, label string) (period.Stats, error) {
	return s.workouts.Stats(ctx, userID, from, to, label)
}

func (s *ContextService) RecoveryState(ctx context.Context, userID, windowDays int) (recovery.Snapshot, error) {
	return s.workouts.Recovery(ctx, userID, windowDays)
}

func (s *ContextService) ListWorkouts(ctx context.Context, userID int, from, to time.Time) ([]workouts.Workout, error) {
	return s.workouts.ListBetween(ctx, userID, from, to)
}

func (s *ContextService) Recommendations(ctx context.Context, userID int, from, to time.Time) ([]recommendations.Recommendation, error) {
	return s.workouts.Recommendations(ctx, userID, from, to)
}

func (s *ContextService) ExerciseCatalog(ctx context.Context) ([]catalog.Exercise, error) {
	return s.catalog.List(ctx)
}
