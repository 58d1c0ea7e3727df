package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/workoutzones/internal/gymstats/load"
	"github.com/2beens/workoutzones/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, category, keywords, zones, intensity
			FROM exercise_catalog
			ORDER BY id;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.rows2exercises(rows)
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, category, keywords, zones, intensity
			FROM exercise_catalog
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, err
	}
	if len(exercises) != 1 {
		return nil, ErrExerciseNotFound
	}
	return &exercises[0], nil
}

// FetchMany resolves the given ids in a single query. Ids missing from the
// catalog are missing from the result.
func (r *Repo) FetchMany(ctx context.Context, ids []string) (_ load.Catalog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.fetchmany")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ids.count", len(ids)))

	result := load.Catalog{}
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, category, keywords, zones, intensity
			FROM exercise_catalog
			WHERE id = ANY($1);`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, err
	}
	for _, e := range exercises {
		result[e.ID] = e.Descriptor()
	}

	span.SetAttributes(attribute.Int("found.count", len(result)))
	return result, nil
}

// KnownZones returns every zone referenced by the catalog, sorted.
func (r *Repo) KnownZones(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.knownzones")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT unnest(zones) AS zone FROM exercise_catalog ORDER BY zone;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	zones, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect zones: %w", err)
	}
	return zones, nil
}

func (r *Repo) rows2exercises(rows pgx.Rows) ([]Exercise, error) {
	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		var category string
		if err := rows.Scan(&e.ID, &e.Title, &category, &e.Keywords, &e.Zones, &e.Intensity); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		e.Category = Category(category)
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return exercises, nil
}
