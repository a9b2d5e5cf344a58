package dataset

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMalformedRow marks a row that lacks a required field.
	ErrMalformedRow = errors.New("dataset: malformed series row")
	// ErrInvariant marks data that is legible but numerically inconsistent.
	ErrInvariant = errors.New("dataset: invariant violation")
)

// ShareTolerance is the accepted deviation of the share total from 100.
const ShareTolerance = 0.5

// MalformedRowError pinpoints the row and field that failed construction.
// Row is -1 when the problem concerns the series as a whole.
type MalformedRowError struct {
	Series string
	Row    int
	Field  string
	Reason string
}

func (e *MalformedRowError) Error() string {
	loc := e.Series
	if e.Row >= 0 {
		loc = fmt.Sprintf("%s[%d]", e.Series, e.Row)
	}
	if e.Field != "" {
		return fmt.Sprintf("dataset: malformed row %s: field %s %s", loc, e.Field, e.Reason)
	}
	return fmt.Sprintf("dataset: malformed series %s: %s", loc, e.Reason)
}

// Is lets callers match with errors.Is(err, ErrMalformedRow).
func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

// InvariantViolation reports a sum that strays from its expected total.
type InvariantViolation struct {
	Name      string
	Got       float64
	Want      float64
	Tolerance float64
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("dataset: %s sums to %.2f, want %.2f ± %.2f", e.Name, e.Got, e.Want, e.Tolerance)
}

// Is lets callers match with errors.Is(err, ErrInvariant).
func (e *InvariantViolation) Is(target error) bool {
	return target == ErrInvariant
}

// CheckShares verifies that the task shares add up to 100 within ShareTolerance.
func CheckShares(shares []TaskTypeShare) error {
	total := 0.0
	for _, s := range shares {
		total += s.Share
	}
	if math.Abs(total-100) > ShareTolerance {
		return &InvariantViolation{Name: "task type shares", Got: total, Want: 100, Tolerance: ShareTolerance}
	}
	return nil
}
