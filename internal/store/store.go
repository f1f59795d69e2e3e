// Package store keeps an ordered, in-memory collection of person records and
// reads and writes it as plain text, one record per line.
//
// A position is an index into the current sequence. It is only meaningful
// until the next Add, Delete or LoadFrom; callers must not hold on to
// positions across mutations.
package store

import (
	"bufio"
	"errors"
	"io"
	"slices"
	"strings"

	"github.com/calvinalkan/people/internal/record"
)

// Store is an ordered list of records. Insertion order is the listing order
// and the save order.
//
// Store does no locking. A Store must not be used from more than one
// goroutine at a time; callers that share one provide their own mutual
// exclusion.
//
// The zero value is an empty store ready to use.
type Store struct {
	records []record.Record
}

// New returns a store holding a copy of records, in order.
func New(records ...record.Record) *Store {
	return &Store{records: slices.Clone(records)}
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Add appends r.
func (s *Store) Add(r record.Record) {
	s.records = append(s.records, r)
}

// Update replaces the record at pos. It returns an [*IndexError] and leaves
// the store untouched if pos is out of range.
func (s *Store) Update(pos int, r record.Record) error {
	err := s.checkPosition(pos)
	if err != nil {
		return err
	}

	s.records[pos] = r

	return nil
}

// Delete removes the record at pos. Records after pos move down by one.
func (s *Store) Delete(pos int) error {
	err := s.checkPosition(pos)
	if err != nil {
		return err
	}

	s.records = slices.Delete(s.records, pos, pos+1)

	return nil
}

// Get returns a copy of the record at pos.
func (s *Store) Get(pos int) (record.Record, error) {
	err := s.checkPosition(pos)
	if err != nil {
		return record.Record{}, err
	}

	return s.records[pos], nil
}

// List returns all records in stored order. The slice is a copy.
func (s *Store) List() []record.Record {
	return slices.Clone(s.records)
}

func (s *Store) checkPosition(pos int) error {
	if pos < 0 || pos >= len(s.records) {
		return &IndexError{Position: pos, Len: len(s.records)}
	}

	return nil
}

// LoadFrom replaces the store's contents with the records read from r.
//
// Lines that are empty or hold only whitespace are skipped. Line numbers in
// errors count every physical line, skipped ones included. The last line
// may omit its newline.
//
// Loading is all or nothing: on a malformed line LoadFrom returns a
// [*record.FormatError] with Line set, on a read failure an [*IOError], and
// in both cases the store keeps its previous contents. LoadFrom does not
// close r.
func (s *Store) LoadFrom(r io.Reader) error {
	var (
		loaded []record.Record
		lineNo int
	)

	br := bufio.NewReader(r)

	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return &IOError{Op: "read", Err: readErr}
		}

		if line == "" && readErr != nil {
			break
		}

		lineNo++

		if strings.TrimSpace(line) == "" {
			if readErr != nil {
				break
			}

			continue
		}

		rec, err := record.Parse(line)
		if err != nil {
			var fe *record.FormatError
			if errors.As(err, &fe) {
				fe.Line = lineNo
				fe.Text = trimNewline(line)
			}

			return err
		}

		loaded = append(loaded, rec)

		if readErr != nil {
			break
		}
	}

	s.records = loaded

	return nil
}

// SaveTo writes every record to w in stored order, one line each.
// A write failure is returned as an [*IOError] wrapping the writer's error.
// SaveTo does not close w.
func (s *Store) SaveTo(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var line []byte

	for _, r := range s.records {
		line, _ = r.AppendText(line[:0])

		_, err := bw.Write(line)
		if err != nil {
			return &IOError{Op: "write", Err: err}
		}
	}

	err := bw.Flush()
	if err != nil {
		return &IOError{Op: "write", Err: err}
	}

	return nil
}

func trimNewline(line string) string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}

	if n > 0 && line[n-1] == '\r' {
		n--
	}

	return line[:n]
}
