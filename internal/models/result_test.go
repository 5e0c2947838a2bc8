package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/workout"
)

// TestNewResultRow verifies inputs and outputs are copied into the row
// and the timestamp is normalized to UTC.
func TestNewResultRow(t *testing.T) {
	rec, res, err := workout.Process(workout.Package{Code: "SWM", Data: []float64{720, 1, 80, 25, 40}})
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	row := NewResultRow(rec, res, "msg", "cli", at)

	if row.ID == uuid.Nil {
		t.Error("ID should be generated")
	}
	if row.TypeCode != "SWM" {
		t.Errorf("type = %q, want SWM", row.TypeCode)
	}
	if row.Kind != "Swimming" {
		t.Errorf("kind = %q, want Swimming", row.Kind)
	}
	if row.PoolLengthM == nil || *row.PoolLengthM != 25 {
		t.Errorf("pool length = %v, want 25", row.PoolLengthM)
	}
	if row.HeightCm != nil {
		t.Errorf("height = %v, want nil", *row.HeightCm)
	}
	if row.Calories != res.Calories {
		t.Errorf("calories = %v, want %v", row.Calories, res.Calories)
	}
	if row.ComputedAt.Location() != time.UTC || row.ComputedAt.Hour() != 11 {
		t.Errorf("computed_at = %v, want 11:00 UTC", row.ComputedAt)
	}
}

// TestNewResultRowUniqueIDs verifies each row gets its own ID.
func TestNewResultRowUniqueIDs(t *testing.T) {
	rec, res, _ := workout.Process(workout.Package{Code: "RUN", Data: []float64{1000, 1, 70}})
	a := NewResultRow(rec, res, "", "", time.Now())
	b := NewResultRow(rec, res, "", "", time.Now())
	if a.ID == b.ID {
		t.Error("expected distinct IDs")
	}
}
