package vrptw

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned for generator or solve inputs outside
	// their configured bounds. Nothing has been modelled when it is returned.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrFormulation marks a malformed instance reaching the model builder.
	ErrFormulation = errors.New("formulation error")

	// ErrSolver marks a failure of the MIP solver itself.
	ErrSolver = errors.New("solver error")

	// ErrSubtourDetected is returned when the arc assignment contains cycles
	// that do not pass through the depot.
	ErrSubtourDetected = errors.New("subtour detected")

	// ErrConstraintViolation is returned when a reconstructed route breaks
	// degree, capacity or time window constraints.
	ErrConstraintViolation = errors.New("constraint violation")
)

// ErrorKind names the class of a solve failure, in the same upper case
// vocabulary as Status. Solver failures and anything unclassified are ERROR.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrSubtourDetected):
		return "SUBTOUR_DETECTED"
	case errors.Is(err, ErrConstraintViolation):
		return "CONSTRAINT_VIOLATION"
	case errors.Is(err, ErrFormulation):
		return "FORMULATION_ERROR"
	case errors.Is(err, ErrInvalidParameter):
		return "INVALID_PARAMETER"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "CANCELED"
	default:
		return string(StatusError)
	}
}

func invalidParam(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, a...))
}

func formulationErr(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFormulation, fmt.Sprintf(format, a...))
}

// SolverError carries the raw solver status behind an ERROR outcome.
type SolverError struct {
	Detail string
	Err    error
}

func (e *SolverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solver error: %s: %v", e.Detail, e.Err)
	}
	return "solver error: " + e.Detail
}

func (e *SolverError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSolver, e.Err}
	}
	return []error{ErrSolver}
}

// SubtourError lists the customer cycles that are detached from the depot,
// and customers reached by more than one route.
type SubtourError struct {
	Cycles    [][]int
	Duplicate []int
}

func (e *SubtourError) Error() string {
	if len(e.Duplicate) > 0 {
		return fmt.Sprintf("subtour detected: customers %v visited more than once", e.Duplicate)
	}
	return fmt.Sprintf("subtour detected: %d cycle(s) not anchored at the depot: %v", len(e.Cycles), e.Cycles)
}

func (e *SubtourError) Unwrap() error { return ErrSubtourDetected }

// ConstraintError describes one broken constraint of a reconstructed route.
type ConstraintError struct {
	Route    int
	Customer int
	Kind     string
	Value    float64
	Limit    float64
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation: route %d customer %d: %s %g (limit %g)", e.Route, e.Customer, e.Kind, e.Value, e.Limit)
}

func (e *ConstraintError) Unwrap() error { return ErrConstraintViolation }
