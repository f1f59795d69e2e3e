package record

import (
	"errors"
	"fmt"
)

// ErrFormat matches every [*FormatError] via [errors.Is].
var ErrFormat = errors.New("malformed record")

// Reasons wrapped by [FormatError].
var (
	ErrFieldCount    = errors.New("wrong number of fields")
	ErrInvalidAge    = errors.New("age is not an integer")
	ErrInvalidHeight = errors.New("height is not an integer")
)

// Validation errors returned by [New] and [Record.Validate].
var (
	ErrInvalidName      = errors.New("invalid name")
	ErrAgeOutOfRange    = errors.New("age out of range")
	ErrHeightOutOfRange = errors.New("height out of range")
)

// FormatError reports a line that does not hold a record.
//
// Line is the 1-based line number when the error comes from reading a whole
// stream, and 0 when a single line was parsed on its own.
type FormatError struct {
	Line int
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s %q: %v", e.Line, ErrFormat, e.Text, e.Err)
	}

	return fmt.Sprintf("%s %q: %v", ErrFormat, e.Text, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrFormat].
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
