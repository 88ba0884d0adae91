package editor

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes why an editor operation did not happen.
type ErrorKind string

const (
	// KindNoAnchor means a range resample was requested before any drag.
	KindNoAnchor ErrorKind = "no_anchor"

	// KindTooFewPoints means the track is too short to fit a spline.
	KindTooFewPoints ErrorKind = "too_few_points"

	// KindWindowTooSmall means the range window has too few distinct points.
	KindWindowTooSmall ErrorKind = "window_too_small"

	// KindFitting wraps a *spline.FittingError.
	KindFitting ErrorKind = "fitting"

	// KindUserCancel means a destructive operation was not confirmed.
	KindUserCancel ErrorKind = "user_cancel"

	// KindNothingToUndo means the undo stack is empty.
	KindNothingToUndo ErrorKind = "nothing_to_undo"

	// KindNothingToRedo means the redo stack is empty.
	KindNothingToRedo ErrorKind = "nothing_to_redo"

	// KindIO means saving the track failed.
	KindIO ErrorKind = "io"
)

// EditError is returned by every editor operation that leaves the track
// untouched. The message is meant for the operator.
type EditError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *EditError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *EditError) Unwrap() error {
	return e.Cause
}

// Is matches any *EditError of the same kind.
func (e *EditError) Is(target error) bool {
	if t, ok := target.(*EditError); ok {
		return t.Kind == e.Kind
	}
	return false
}

// IsInformational reports whether err is a notice rather than a failure:
// a cancelled prompt or an empty undo/redo stack.
func IsInformational(err error) bool {
	var ee *EditError
	if !errors.As(err, &ee) {
		return false
	}
	switch ee.Kind {
	case KindUserCancel, KindNothingToUndo, KindNothingToRedo:
		return true
	}
	return false
}

func newError(kind ErrorKind, cause error, format string, args ...interface{}) *EditError {
	return &EditError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}
