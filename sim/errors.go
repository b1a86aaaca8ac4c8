package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when a count, rate, or duration is outside
// of its valid range. Errors of this kind are raised before any random draw
// is consumed.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrEmptyBatch is returned when a statistic is requested over zero
// passengers.
var ErrEmptyBatch = errors.New("empty batch")

// ErrInvariantViolation is returned when a passenger record breaks the
// single-server FIFO invariants.
var ErrInvariantViolation = errors.New("invariant violation")

// A ParameterError names the offending parameter. It unwraps to
// ErrInvalidParameter.
type ParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidParameter).
func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// CheckPositiveRate returns a ParameterError unless rate is a finite number
// greater than zero.
func CheckPositiveRate(name string, rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return &ParameterError{Name: name, Value: rate, Reason: "must be finite"}
	}

	if rate <= 0 {
		return &ParameterError{Name: name, Value: rate, Reason: "must be > 0"}
	}

	return nil
}

// CheckPositiveCount returns a ParameterError unless n > 0.
func CheckPositiveCount(name string, n int) error {
	if n <= 0 {
		return &ParameterError{Name: name, Value: n, Reason: "must be > 0"}
	}

	return nil
}

// CheckNonNegativeTime returns a ParameterError unless t is a finite,
// non-negative time.
func CheckNonNegativeTime(name string, t VTimeInMin) error {
	v := float64(t)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ParameterError{Name: name, Value: v, Reason: "must be finite"}
	}

	if v < 0 {
		return &ParameterError{Name: name, Value: v, Reason: "must be >= 0"}
	}

	return nil
}
