package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutzones/internal/auth"
	"github.com/2beens/workoutzones/internal/gymstats/load"
	"github.com/2beens/workoutzones/internal/telemetry/tracing"
	"github.com/2beens/workoutzones/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

const workoutColumns = `id, user_id, date, workout_type, exercises, zones_load,
	total_intensity, total_volume, notes, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, w Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", w.UserID))

	exercisesJson, zonesJson, err := marshalJsonColumns(w)
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO workout (user_id, date, workout_type, exercises, zones_load, total_intensity, total_volume, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at;`,
		w.UserID, w.Date, string(w.WorkoutType), exercisesJson, zonesJson,
		w.TotalIntensity, w.TotalVolume, w.Notes,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("insert workout: %w", auth.ErrUnknownUser)
		}
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", w.ID))
	return &w, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("workout.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+`
			FROM workout
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	list, err := r.rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(list) != 1 {
		return nil, ErrWorkoutNotFound
	}
	return &list[0], nil
}

// Update overwrites the user editable and derived fields of an existing workout.
func (r *Repo) Update(ctx context.Context, w *Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", w.UserID), attribute.Int("workout.id", w.ID))

	exercisesJson, zonesJson, err := marshalJsonColumns(*w)
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(
		ctx,
		`UPDATE workout
			SET date = $1, workout_type = $2, exercises = $3, zones_load = $4,
				total_intensity = $5, total_volume = $6, notes = $7, updated_at = now()
			WHERE id = $8 AND user_id = $9
			RETURNING created_at, updated_at;`,
		w.Date, string(w.WorkoutType), exercisesJson, zonesJson,
		w.TotalIntensity, w.TotalVolume, w.Notes, w.ID, w.UserID,
	).Scan(&w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrWorkoutNotFound
		}
		return fmt.Errorf("update workout: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("workout.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// List returns one page of the user's workouts, newest first, and the total
// number of workouts the user has.
func (r *Repo) List(ctx context.Context, userID, page, size int) (_ []Workout, _ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("page", page),
		attribute.Int("size", size),
	)

	total, err := r.Count(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count workouts: %w", err)
	}

	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+`
			FROM workout
			WHERE user_id = $1
			ORDER BY date DESC, id DESC
			LIMIT $2
			OFFSET $3;`,
		userID, size, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	list, err := r.rows2workouts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *Repo) Count(ctx context.Context, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout WHERE user_id = $1;`,
		userID,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListBetween returns the user's workouts with from <= date <= to, oldest first.
func (r *Repo) ListBetween(ctx context.Context, userID int, from, to time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listbetween")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.String("from", from.Format(time.RFC3339)),
		attribute.String("to", to.Format(time.RFC3339)),
	)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+`
			FROM workout
			WHERE user_id = $1 AND date >= $2 AND date <= $3
			ORDER BY date ASC, id ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.rows2workouts(rows)
}

func (r *Repo) ListSince(ctx context.Context, userID int, since time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listsince")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.String("since", since.Format(time.RFC3339)),
	)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+`
			FROM workout
			WHERE user_id = $1 AND date >= $2
			ORDER BY date ASC, id ASC;`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.rows2workouts(rows)
}

func (r *Repo) ListAll(ctx context.Context, userID int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+`
			FROM workout
			WHERE user_id = $1
			ORDER BY date ASC, id ASC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.rows2workouts(rows)
}

func marshalJsonColumns(w Workout) ([]byte, []byte, error) {
	exercises := w.Exercises
	if exercises == nil {
		exercises = []load.ExerciseInstance{}
	}
	exercisesJson, err := json.Marshal(exercises)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal exercises: %w", err)
	}
	zonesJson, err := json.Marshal(w.ZonesLoad)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal zones load: %w", err)
	}
	return exercisesJson, zonesJson, nil
}

func (r *Repo) rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var list []Workout
	for rows.Next() {
		var w Workout
		var workoutType string
		var exercisesJson, zonesJson []byte
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Date, &workoutType, &exercisesJson, &zonesJson,
			&w.TotalIntensity, &w.TotalVolume, &w.Notes, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}

		w.WorkoutType = load.Modality(workoutType)
		if err := json.Unmarshal(exercisesJson, &w.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal exercises of workout %d: %w", w.ID, err)
		}
		w.ZonesLoad = load.NewZoneVector()
		if err := json.Unmarshal(zonesJson, &w.ZonesLoad); err != nil {
			return nil, fmt.Errorf("unmarshal zones load of workout %d: %w", w.ID, err)
		}

		list = append(list, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return list, nil
}
