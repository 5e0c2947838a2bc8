package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/workout"
)

// ResultRow is a computed workout as stored in the history tables.
type ResultRow struct {
	ID            uuid.UUID `json:"id"`
	TypeCode      string    `json:"type"`
	Kind          string    `json:"kind"`
	Actions       int       `json:"action_count"`
	DurationHours float64   `json:"duration_hours"`
	WeightKg      float64   `json:"weight_kg"`
	HeightCm      *float64  `json:"height_cm,omitempty"`
	PoolLengthM   *float64  `json:"pool_length_m,omitempty"`
	PoolLaps      *float64  `json:"pool_laps,omitempty"`
	DistanceKm    float64   `json:"distance_km"`
	SpeedKmh      float64   `json:"mean_speed_kmh"`
	Calories      float64   `json:"calories"`
	Message       string    `json:"message"`
	Source        string    `json:"source"`
	ComputedAt    time.Time `json:"computed_at"`
}

// NewResultRow builds a history row with a fresh ID.
func NewResultRow(rec workout.Record, res workout.Result, message, source string, at time.Time) ResultRow {
	return ResultRow{
		ID:            uuid.New(),
		TypeCode:      workout.CodeFor(rec.Kind),
		Kind:          res.Kind.String(),
		Actions:       rec.Actions,
		DurationHours: rec.DurationHours,
		WeightKg:      rec.WeightKg,
		HeightCm:      rec.HeightCm,
		PoolLengthM:   rec.PoolLengthM,
		PoolLaps:      rec.PoolLaps,
		DistanceKm:    res.DistanceKm,
		SpeedKmh:      res.SpeedKmh,
		Calories:      res.Calories,
		Message:       message,
		Source:        source,
		ComputedAt:    at.UTC(),
	}
}

// KindTotal aggregates history rows of one kind.
type KindTotal struct {
	Kind          string  `json:"kind"`
	Workouts      int     `json:"workouts"`
	DurationHours float64 `json:"duration_hours"`
	DistanceKm    float64 `json:"distance_km"`
	Calories      float64 `json:"calories"`
}
