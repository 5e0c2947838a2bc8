package workout

import "errors"

var (
	// ErrUnknownWorkoutType is returned for type codes missing from the dispatch table.
	ErrUnknownWorkoutType = errors.New("unknown workout type")

	// ErrArityMismatch is returned when a package carries the wrong number of values.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrInvalidInput is returned for non-positive duration, negative counts,
	// or a missing variant-specific field.
	ErrInvalidInput = errors.New("invalid input")
)

// Reason returns a short label for err suitable for metrics and API responses.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownWorkoutType):
		return "unknown_workout_type"
	case errors.Is(err, ErrArityMismatch):
		return "arity_mismatch"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
