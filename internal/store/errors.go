package store

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange matches every [*IndexError] via [errors.Is].
var ErrIndexOutOfRange = errors.New("position out of range")

// ErrIO matches every [*IOError] via [errors.Is].
var ErrIO = errors.New("i/o error")

// ErrLockTimeout reports that the data file lock was not acquired in time.
var ErrLockTimeout = errors.New("lock timeout")

// IndexError reports a position outside [0, Len).
type IndexError struct {
	Position int
	Len      int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: %d (%d records)", ErrIndexOutOfRange, e.Position, e.Len)
}

// Is reports whether target is [ErrIndexOutOfRange].
func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }

// IOError reports a failure of the underlying reader or writer. Err is the
// stream's error, unchanged.
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrIO].
func (e *IOError) Is(target error) bool { return target == ErrIO }
