package track

import (
	"fmt"
	"strings"
)

// FormatErrorKind categorizes structural problems of a dataset.
type FormatErrorKind string

const (
	// MissingHeader means the input had no header row at all.
	MissingHeader FormatErrorKind = "missing_header"

	// MissingColumn means a required column is absent from the header.
	MissingColumn FormatErrorKind = "missing_column"
)

// FormatError reports a dataset whose header cannot be used.
type FormatError struct {
	Kind    FormatErrorKind
	Columns []string
	Source  string
}

// Error implements the error interface
func (e *FormatError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		fmt.Fprintf(&b, "%s: ", e.Source)
	}
	switch e.Kind {
	case MissingColumn:
		fmt.Fprintf(&b, "missing required column(s): %s", strings.Join(e.Columns, ", "))
	case MissingHeader:
		b.WriteString("dataset has no header row")
	default:
		fmt.Fprintf(&b, "format error: %s", e.Kind)
	}
	return b.String()
}

// Is matches any *FormatError of the same kind.
func (e *FormatError) Is(target error) bool {
	if fe, ok := target.(*FormatError); ok {
		return fe.Kind == e.Kind
	}
	return false
}

// FileAccessError reports an unreadable, missing or unwritable file.
type FileAccessError struct {
	Path  string
	Op    string
	Cause error
}

// Error implements the error interface
func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying error
func (e *FileAccessError) Unwrap() error {
	return e.Cause
}
