package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/fittrack/internal/history"
	"github.com/meltforce/fittrack/internal/models"
)

// Compile-time check: *DB satisfies history.Store.
var _ history.Store = (*DB)(nil)

const resultColumns = `id, type_code, kind, action_count, duration_hours, weight_kg,
	height_cm, pool_length_m, pool_laps, distance_km, mean_speed_kmh, calories,
	message, source, computed_at`

// InsertResult inserts a computed workout row.
func (db *DB) InsertResult(ctx context.Context, row models.ResultRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_results (`+resultColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		row.ID, row.TypeCode, row.Kind, row.Actions, row.DurationHours, row.WeightKg,
		row.HeightCm, row.PoolLengthM, row.PoolLaps, row.DistanceKm, row.SpeedKmh, row.Calories,
		row.Message, row.Source, row.ComputedAt)
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

// QueryResults retrieves results computed in [start, end), newest first.
func (db *DB) QueryResults(ctx context.Context, start, end time.Time, kindFilter string) ([]models.ResultRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+resultColumns+`
		 FROM workout_results
		 WHERE computed_at >= $1 AND computed_at < $2 AND ($3 = '' OR kind = $3)
		 ORDER BY computed_at DESC`,
		start, end, kindFilter)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var result []models.ResultRow
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetResult retrieves a single result by ID.
func (db *DB) GetResult(ctx context.Context, id uuid.UUID) (*models.ResultRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM workout_results WHERE id = $1`, id)
	r, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, history.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// KindTotals aggregates results per kind over [start, end).
func (db *DB) KindTotals(ctx context.Context, start, end time.Time) ([]models.KindTotal, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT kind, COUNT(*), SUM(duration_hours), SUM(distance_km), SUM(calories)
		 FROM workout_results
		 WHERE computed_at >= $1 AND computed_at < $2
		 GROUP BY kind
		 ORDER BY kind`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying totals: %w", err)
	}
	defer rows.Close()

	var totals []models.KindTotal
	for rows.Next() {
		var t models.KindTotal
		if err := rows.Scan(&t.Kind, &t.Workouts, &t.DurationHours, &t.DistanceKm, &t.Calories); err != nil {
			return nil, fmt.Errorf("scanning totals: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func scanResult(row pgx.Row) (models.ResultRow, error) {
	var r models.ResultRow
	err := row.Scan(&r.ID, &r.TypeCode, &r.Kind, &r.Actions, &r.DurationHours, &r.WeightKg,
		&r.HeightCm, &r.PoolLengthM, &r.PoolLaps, &r.DistanceKm, &r.SpeedKmh, &r.Calories,
		&r.Message, &r.Source, &r.ComputedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scanning result: %w", err)
	}
	return r, nil
}
