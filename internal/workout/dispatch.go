package workout

import (
	"fmt"
	"math"
	"sort"
)

// Package is one batch of sensor data as delivered by a tracker:
// a type code plus positional values.
type Package struct {
	Code string    `json:"type" yaml:"type"`
	Data []float64 `json:"data" yaml:"data"`

	// Err is set by readers when the package's values could not be decoded.
	// Read reports it in place of the package.
	Err error `json:"-" yaml:"-"`
}

// Type describes one entry of the dispatch table.
type Type struct {
	Code   string   `json:"code"`
	Kind   Kind     `json:"kind"`
	Params []string `json:"params"`
}

var types = map[string]Type{
	"RUN": {Code: "RUN", Kind: Running, Params: []string{"action", "duration", "weight"}},
	"WLK": {Code: "WLK", Kind: Walking, Params: []string{"action", "duration", "weight", "height"}},
	"SWM": {Code: "SWM", Kind: Swimming, Params: []string{"action", "duration", "weight", "length_pool", "count_pool"}},
}

// Types returns the dispatch table ordered by code.
func Types() []Type {
	out := make([]Type, 0, len(types))
	for _, t := range types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// LookupType returns the table entry for code.
func LookupType(code string) (Type, error) {
	t, ok := types[code]
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownWorkoutType, code)
	}
	return t, nil
}

// CodeFor returns the type code registered for kind.
func CodeFor(k Kind) string {
	for code, t := range types {
		if t.Kind == k {
			return code
		}
	}
	return ""
}

// Read maps a package onto a Record. It checks the code and the number of
// values only; range checks happen in Compute.
func Read(p Package) (Record, error) {
	if p.Err != nil {
		return Record{}, p.Err
	}
	t, err := LookupType(p.Code)
	if err != nil {
		return Record{}, err
	}
	if len(p.Data) != len(t.Params) {
		return Record{}, fmt.Errorf("%w: %s expects %d values (%v), got %d",
			ErrArityMismatch, p.Code, len(t.Params), t.Params, len(p.Data))
	}

	actions, err := actionCount(p.Data[0])
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Kind:          t.Kind,
		Actions:       actions,
		DurationHours: p.Data[1],
		WeightKg:      p.Data[2],
	}
	switch t.Kind {
	case Walking:
		rec.HeightCm = ptr(p.Data[3])
	case Swimming:
		rec.PoolLengthM = ptr(p.Data[3])
		rec.PoolLaps = ptr(p.Data[4])
	}
	return rec, nil
}

// Process reads, validates and computes a package in one step.
func Process(p Package) (Record, Result, error) {
	rec, err := Read(p)
	if err != nil {
		return Record{}, Result{}, err
	}
	res, err := Compute(rec)
	if err != nil {
		return rec, Result{}, err
	}
	return rec, res, nil
}

func actionCount(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: action count must be a whole number, got %v", ErrInvalidInput, v)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: action count must not be negative, got %v", ErrInvalidInput, v)
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: action count out of range, got %v", ErrInvalidInput, v)
	}
	return int(v), nil
}

func ptr(v float64) *float64 { return &v }
