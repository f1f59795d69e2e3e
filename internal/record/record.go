// Package record defines the person record and its one-line text form.
//
// A record serializes to a single line:
//
//	<name> <age> <height>
//
// Fields are separated by whitespace, so names never contain whitespace.
package record

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Bounds enforced when a record is entered by hand. Records read from a
// file are not checked against them.
const (
	MinAge    = 0
	MaxAge    = 120
	MinHeight = 0
	MaxHeight = 300
)

const fieldCount = 3

// Record is one person. It is a plain value; copies never share state.
type Record struct {
	Name   string
	Age    int
	Height int
}

// New returns a record built from user input, enforcing the edit bounds.
func New(name string, age, height int) (Record, error) {
	r := Record{Name: name, Age: age, Height: height}

	err := r.Validate()
	if err != nil {
		return Record{}, err
	}

	return r, nil
}

// Validate checks the edit-path invariants: a non-empty whitespace-free name,
// age in [MinAge, MaxAge] and height in [MinHeight, MaxHeight].
func (r Record) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}

	if strings.IndexFunc(r.Name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, r.Name)
	}

	if r.Age < MinAge || r.Age > MaxAge {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrAgeOutOfRange, r.Age, MinAge, MaxAge)
	}

	if r.Height < MinHeight || r.Height > MaxHeight {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrHeightOutOfRange, r.Height, MinHeight, MaxHeight)
	}

	return nil
}

// Parse reads one record from a line of text. The line must hold exactly
// three whitespace-separated fields, the last two base-10 integers.
// Integers are not range checked.
func Parse(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != fieldCount {
		return Record{}, &FormatError{
			Text: line,
			Err:  fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), fieldCount),
		}
	}

	age, err := strconv.Atoi(fields[1])
	if err != nil {
		return Record{}, &FormatError{Text: line, Err: fmt.Errorf("%w: %q", ErrInvalidAge, fields[1])}
	}

	height, err := strconv.Atoi(fields[2])
	if err != nil {
		return Record{}, &FormatError{Text: line, Err: fmt.Errorf("%w: %q", ErrInvalidHeight, fields[2])}
	}

	return Record{Name: fields[0], Age: age, Height: height}, nil
}

// String returns the record's line without the trailing newline.
func (r Record) String() string {
	return r.Name + " " + strconv.Itoa(r.Age) + " " + strconv.Itoa(r.Height)
}

// AppendText appends the serialized line, newline included, to b.
// It implements [encoding.TextAppender].
func (r Record) AppendText(b []byte) ([]byte, error) {
	b = append(b, r.Name...)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(r.Age), 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(r.Height), 10)
	b = append(b, '\n')

	return b, nil
}
