package climate

import (
	"errors"
	"fmt"
)

// Domain errors shared across the pipeline.
var (
	// ErrAlignment indicates the two input series disagree on which periods exist.
	ErrAlignment = errors.New("climate: series misaligned")

	// ErrDomain indicates an argument outside the model's mathematical domain.
	ErrDomain = errors.New("climate: value outside model domain")

	// ErrSensitivityBounds indicates a sensitivity outside the configured range.
	ErrSensitivityBounds = errors.New("climate: sensitivity out of bounds")

	// ErrNoData indicates there are no comparable periods to aggregate.
	ErrNoData = errors.New("climate: no comparable periods")

	// ErrNotModeled indicates a record that the recurrence engine has not populated.
	ErrNotModeled = errors.New("climate: record has no modeled values")

	// ErrNoGroundTruth indicates a record without recorded values.
	ErrNoGroundTruth = errors.New("climate: record has no recorded values")

	// ErrInvalidPeriod indicates a malformed year or month.
	ErrInvalidPeriod = errors.New("climate: invalid period")

	// ErrOrder indicates periods that are not strictly increasing and contiguous.
	ErrOrder = errors.New("climate: periods out of order")
)

// AlignmentError describes where two series failed to line up.
type AlignmentError struct {
	Period        Period
	Concentration int
	Anomaly       int
	Reason        string
}

func (e *AlignmentError) Error() string {
	if e.Period.IsZero() {
		return fmt.Sprintf("%s: %s (concentration rows=%d, anomaly rows=%d)",
			ErrAlignment, e.Reason, e.Concentration, e.Anomaly)
	}
	return fmt.Sprintf("%s: %s at %s", ErrAlignment, e.Reason, e.Period)
}

func (e *AlignmentError) Unwrap() error {
	return ErrAlignment
}

// StepError wraps a failure of a single model step with its position.
type StepError struct {
	Index   int
	Period  Period
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Period, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
