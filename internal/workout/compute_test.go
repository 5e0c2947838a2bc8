package workout

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func f(v float64) *float64 { return &v }

// TestComputeRunning verifies distance, speed and calories for the reference run.
func TestComputeRunning(t *testing.T) {
	res, err := Compute(Record{Kind: Running, Actions: 15000, DurationHours: 1, WeightKg: 75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(res.DistanceKm, 9.75) {
		t.Errorf("distance = %v, want 9.75", res.DistanceKm)
	}
	if !approx(res.SpeedKmh, 9.75) {
		t.Errorf("speed = %v, want 9.75", res.SpeedKmh)
	}
	want := (18*9.75 - 20) * 75 / 1000.0 * 60
	if !approx(res.Calories, want) {
		t.Errorf("calories = %v, want %v", res.Calories, want)
	}
	if !approx(res.Calories, 699.75) {
		t.Errorf("calories = %v, want 699.75", res.Calories)
	}
}

// TestComputeWalking verifies the walking formula, including the floored
// speed²/height term which is zero for the reference walk.
func TestComputeWalking(t *testing.T) {
	res, err := Compute(Record{Kind: Walking, Actions: 9000, DurationHours: 1, WeightKg: 75, HeightCm: f(180)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(res.DistanceKm, 5.85) {
		t.Errorf("distance = %v, want 5.85", res.DistanceKm)
	}
	if !approx(res.SpeedKmh, 5.85) {
		t.Errorf("speed = %v, want 5.85", res.SpeedKmh)
	}
	if !approx(res.Calories, 157.5) {
		t.Errorf("calories = %v, want 157.5", res.Calories)
	}
}

// TestComputeWalkingFloorTerm verifies the speed²/height term is floored,
// not rounded: speed 20 km/h at height 150 gives 400/150 = 2.67 → 2.
func TestComputeWalkingFloorTerm(t *testing.T) {
	res, err := Compute(Record{Kind: Walking, Actions: 30769, DurationHours: 1, WeightKg: 100, HeightCm: f(150)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	speed := 30769 * 0.65 / 1000
	want := (0.035*100 + math.Floor(speed*speed/150)*0.029*100) * 60
	if !approx(res.Calories, want) {
		t.Errorf("calories = %v, want %v", res.Calories, want)
	}
	if math.Floor(speed*speed/150) != 2 {
		t.Fatalf("test setup: floor term = %v, want 2", math.Floor(speed*speed/150))
	}
}

// TestComputeSwimming verifies that swimming speed comes from pool geometry
// and distance from the stroke length.
func TestComputeSwimming(t *testing.T) {
	res, err := Compute(Record{Kind: Swimming, Actions: 720, DurationHours: 1, WeightKg: 80, PoolLengthM: f(25), PoolLaps: f(40)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(res.DistanceKm, 0.9936) {
		t.Errorf("distance = %v, want 0.9936", res.DistanceKm)
	}
	if !approx(res.SpeedKmh, 1.0) {
		t.Errorf("speed = %v, want 1.0", res.SpeedKmh)
	}
	if !approx(res.Calories, 336.0) {
		t.Errorf("calories = %v, want 336.0", res.Calories)
	}
}

// TestComputeInvalidDuration verifies zero and negative durations are rejected
// before any division happens.
func TestComputeInvalidDuration(t *testing.T) {
	for _, d := range []float64{0, -1, math.NaN()} {
		_, err := Compute(Record{Kind: Running, Actions: 100, DurationHours: d, WeightKg: 70})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("duration %v: err = %v, want ErrInvalidInput", d, err)
		}
	}
}

// TestComputeMissingFields verifies variant-specific fields are required.
func TestComputeMissingFields(t *testing.T) {
	cases := []Record{
		{Kind: Walking, Actions: 100, DurationHours: 1, WeightKg: 70},
		{Kind: Swimming, Actions: 100, DurationHours: 1, WeightKg: 70, PoolLengthM: f(25)},
		{Kind: Swimming, Actions: 100, DurationHours: 1, WeightKg: 70, PoolLaps: f(10)},
	}
	for _, rec := range cases {
		if _, err := Compute(rec); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%+v: err = %v, want ErrInvalidInput", rec, err)
		}
	}
}

// TestComputeNegativeActions verifies a negative action count is rejected.
func TestComputeNegativeActions(t *testing.T) {
	_, err := Compute(Record{Kind: Running, Actions: -1, DurationHours: 1, WeightKg: 70})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

// TestComputeUnknownKind verifies a zero Kind is not silently treated as a variant.
func TestComputeUnknownKind(t *testing.T) {
	_, err := Compute(Record{Actions: 1, DurationHours: 1, WeightKg: 70})
	if !errors.Is(err, ErrUnknownWorkoutType) {
		t.Errorf("err = %v, want ErrUnknownWorkoutType", err)
	}
}

// TestKindJSON verifies kinds serialize by display name.
func TestKindJSON(t *testing.T) {
	data, err := Walking.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"SportsWalking"` {
		t.Errorf("marshal = %s, want \"SportsWalking\"", data)
	}
	var k Kind
	if err := k.UnmarshalJSON([]byte(`"Swimming"`)); err != nil {
		t.Fatal(err)
	}
	if k != Swimming {
		t.Errorf("unmarshal = %v, want Swimming", k)
	}
	if err := k.UnmarshalJSON([]byte(`"Rowing"`)); err == nil {
		t.Error("expected error for unknown kind")
	}
}

// TestReason verifies error classification labels.
func TestReason(t *testing.T) {
	cases := map[error]string{
		nil:                   "",
		ErrUnknownWorkoutType: "unknown_workout_type",
		ErrArityMismatch:      "arity_mismatch",
		ErrInvalidInput:       "invalid_input",
		errors.New("boom"):    "internal",
	}
	for err, want := range cases {
		if got := Reason(err); got != want {
			t.Errorf("Reason(%v) = %q, want %q", err, got, want)
		}
	}
}
