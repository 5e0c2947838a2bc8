package workout

import (
	"fmt"
	"math"
)

const (
	mInKm    = 1000
	minInH   = 60
	stepLenM = 0.65

	// Swimming distance counts strokes, not steps.
	strokeLenM = 1.38

	runCalorieSpeedMult = 18
	runCalorieSpeedDiff = 20

	walkCalorieWeightMult = 0.035
	walkCalorieSpeedMult  = 0.029

	swimCalorieSpeedShift = 1.1
	swimCalorieWeightMult = 2
)

// Record holds the raw sensor readings for one workout session.
// HeightCm is required for Walking; PoolLengthM and PoolLaps for Swimming.
type Record struct {
	Kind          Kind     `json:"kind"`
	Actions       int      `json:"action_count"`
	DurationHours float64  `json:"duration_hours"`
	WeightKg      float64  `json:"weight_kg"`
	HeightCm      *float64 `json:"height_cm,omitempty"`
	PoolLengthM   *float64 `json:"pool_length_m,omitempty"`
	PoolLaps      *float64 `json:"pool_laps,omitempty"`
}

// Result is the derived summary of a Record.
type Result struct {
	Kind          Kind    `json:"kind"`
	DurationHours float64 `json:"duration_hours"`
	DistanceKm    float64 `json:"distance_km"`
	SpeedKmh      float64 `json:"mean_speed_kmh"`
	Calories      float64 `json:"calories"`
}

// Validate checks the invariants Compute relies on.
func (r Record) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %v", ErrUnknownWorkoutType, r.Kind)
	}
	if !(r.DurationHours > 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidInput, r.DurationHours)
	}
	if r.Actions < 0 {
		return fmt.Errorf("%w: action count must not be negative, got %d", ErrInvalidInput, r.Actions)
	}
	switch r.Kind {
	case Walking:
		if r.HeightCm == nil {
			return fmt.Errorf("%w: height is required for %v", ErrInvalidInput, r.Kind)
		}
		if !(*r.HeightCm > 0) {
			return fmt.Errorf("%w: height must be positive, got %v", ErrInvalidInput, *r.HeightCm)
		}
	case Swimming:
		if r.PoolLengthM == nil || r.PoolLaps == nil {
			return fmt.Errorf("%w: pool length and lap count are required for %v", ErrInvalidInput, r.Kind)
		}
	}
	return nil
}

// Compute derives distance, mean speed and calories from r.
func Compute(r Record) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Kind: r.Kind, DurationHours: r.DurationHours}
	switch r.Kind {
	case Running:
		res.DistanceKm = distance(r.Actions, stepLenM)
		res.SpeedKmh = res.DistanceKm / r.DurationHours
		res.Calories = (runCalorieSpeedMult*res.SpeedKmh - runCalorieSpeedDiff) *
			r.WeightKg / mInKm * (r.DurationHours * minInH)
	case Walking:
		res.DistanceKm = distance(r.Actions, stepLenM)
		res.SpeedKmh = res.DistanceKm / r.DurationHours
		height := *r.HeightCm
		res.Calories = (walkCalorieWeightMult*r.WeightKg +
			math.Floor(res.SpeedKmh*res.SpeedKmh/height)*walkCalorieSpeedMult*r.WeightKg) *
			r.DurationHours * minInH
	case Swimming:
		res.DistanceKm = distance(r.Actions, strokeLenM)
		// Pool geometry, not stroke count, drives swimming speed.
		poolLen, laps := *r.PoolLengthM, *r.PoolLaps
		res.SpeedKmh = poolLen * laps / mInKm / r.DurationHours
		res.Calories = (res.SpeedKmh + swimCalorieSpeedShift) * swimCalorieWeightMult * r.WeightKg
	}
	return res, nil
}

func distance(actions int, lenM float64) float64 {
	return float64(actions) * lenM / mInKm
}
