package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps workout history in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the history database at dir/history.db.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
	}

	// The server and MCP surfaces write concurrently; SQLite allows one
	// writer, so writes queue on a single connection and wait out locks
	// held by other processes.
	dsn := "file:" + filepath.Join(dir, "history.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS workout_results (
		id             TEXT PRIMARY KEY,
		type_code      TEXT NOT NULL,
		kind           TEXT NOT NULL,
		action_count   INTEGER NOT NULL,
		duration_hours REAL NOT NULL,
		weight_kg      REAL NOT NULL,
		height_cm      REAL,
		pool_length_m  REAL,
		pool_laps      REAL,
		distance_km    REAL NOT NULL,
		mean_speed_kmh REAL NOT NULL,
		calories       REAL NOT NULL,
		message        TEXT NOT NULL,
		source         TEXT NOT NULL,
		computed_at    INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS workout_results_computed_at ON workout_results (computed_at)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// InsertResult records a computed workout.
func (s *SQLiteStore) InsertResult(ctx context.Context, row models.ResultRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workout_results (id, type_code, kind, action_count, duration_hours, weight_kg,
		 height_cm, pool_length_m, pool_laps, distance_km, mean_speed_kmh, calories, message, source, computed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID.String(), row.TypeCode, row.Kind, row.Actions, row.DurationHours, row.WeightKg,
		row.HeightCm, row.PoolLengthM, row.PoolLaps, row.DistanceKm, row.SpeedKmh, row.Calories,
		row.Message, row.Source, row.ComputedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

// QueryResults returns rows computed in [start, end), newest first.
// An empty kindFilter matches every kind.
func (s *SQLiteStore) QueryResults(ctx context.Context, start, end time.Time, kindFilter string) ([]models.ResultRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+`
		 FROM workout_results
		 WHERE computed_at >= ? AND computed_at < ? AND (? = '' OR kind = ?)
		 ORDER BY computed_at DESC`,
		start.UnixNano(), end.UnixNano(), kindFilter, kindFilter)
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
		result = append(result, *r)
	}
	return result, rows.Err()
}

// GetResult retrieves one row by ID.
func (s *SQLiteStore) GetResult(ctx context.Context, id uuid.UUID) (*models.ResultRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM workout_results WHERE id = ?`, id.String())
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// KindTotals sums duration, distance and calories per kind over [start, end).
func (s *SQLiteStore) KindTotals(ctx context.Context, start, end time.Time) ([]models.KindTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, COUNT(*), SUM(duration_hours), SUM(distance_km), SUM(calories)
		 FROM workout_results
		 WHERE computed_at >= ? AND computed_at < ?
		 GROUP BY kind
		 ORDER BY kind`,
		start.UnixNano(), end.UnixNano())
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

// Close closes the history database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const resultColumns = `id, type_code, kind, action_count, duration_hours, weight_kg,
	height_cm, pool_length_m, pool_laps, distance_km, mean_speed_kmh, calories, message, source, computed_at`

func scanResult(row interface{ Scan(dest ...any) error }) (*models.ResultRow, error) {
	var (
		r      models.ResultRow
		id     string
		atNano int64
	)
	err := row.Scan(&id, &r.TypeCode, &r.Kind, &r.Actions, &r.DurationHours, &r.WeightKg,
		&r.HeightCm, &r.PoolLengthM, &r.PoolLaps, &r.DistanceKm, &r.SpeedKmh, &r.Calories,
		&r.Message, &r.Source, &atNano)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning result: %w", err)
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing result id %q: %w", id, err)
	}
	r.ComputedAt = time.Unix(0, atNano).UTC()
	return &r, nil
}
