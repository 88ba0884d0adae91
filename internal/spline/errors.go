package spline

import "fmt"

// FailureKind categorizes why a fit could not be produced.
type FailureKind string

const (
	// InsufficientPoints means fewer distinct points than a cubic fit needs.
	InsufficientPoints FailureKind = "insufficient_points"

	// DegenerateGeometry means the input contains non-finite coordinates.
	DegenerateGeometry FailureKind = "degenerate_geometry"

	// NumericalFailure means the linear system could not be solved or the
	// result is not finite.
	NumericalFailure FailureKind = "numerical_failure"
)

// FittingError is returned by every fit that fails. Callers treat it as
// recoverable: nothing has been modified.
type FittingError struct {
	Kind    FailureKind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *FittingError) Error() string {
	msg := fmt.Sprintf("spline fit failed (%s): %s", e.Kind, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *FittingError) Unwrap() error {
	return e.Cause
}

// Is matches any *FittingError of the same kind.
func (e *FittingError) Is(target error) bool {
	if fe, ok := target.(*FittingError); ok {
		return fe.Kind == e.Kind
	}
	return false
}

func insufficient(distinct int) error {
	return &FittingError{
		Kind:    InsufficientPoints,
		Message: fmt.Sprintf("need at least %d distinct points, have %d", MinPoints, distinct),
	}
}
