package store

import (
	"math"

	"github.com/calvinalkan/people/internal/record"
)

// Range is an inclusive interval of integers. A range with Min > Max is
// empty; it matches nothing and is not an error.
type Range struct {
	Min int
	Max int
}

// Unbounded returns a range matching every int.
func Unbounded() Range { return Range{Min: math.MinInt, Max: math.MaxInt} }

// AtLeast returns the range [n, +inf).
func AtLeast(n int) Range { return Range{Min: n, Max: math.MaxInt} }

// AtMost returns the range (-inf, n].
func AtMost(n int) Range { return Range{Min: math.MinInt, Max: n} }

// Contains reports whether Min <= v <= Max.
func (r Range) Contains(v int) bool {
	return r.Min <= v && v <= r.Max
}

// Empty reports whether the range can match nothing.
func (r Range) Empty() bool {
	return r.Min > r.Max
}

// Query selects records by field ranges.
// Nil ranges and zero Limit/Offset mean "no filter". Constraints combine
// with AND. Limit and Offset apply after filtering.
type Query struct {
	Age    *Range // Age keeps records whose age is in range.
	Height *Range // Height keeps records whose height is in range.
	Limit  int    // Limit caps the number of matches when > 0.
	Offset int    // Offset skips the first matches when > 0.
}

// Match reports whether r satisfies the range constraints of q.
// Limit and Offset are ignored.
func (q *Query) Match(r record.Record) bool {
	if q.Age != nil && !q.Age.Contains(r.Age) {
		return false
	}

	if q.Height != nil && !q.Height.Contains(r.Height) {
		return false
	}

	return true
}

// Entry is a query result: a record and its position at query time.
type Entry struct {
	Position int
	Record   record.Record
}

// Query returns the matching records in stored order with their positions.
// A nil q matches everything.
func (s *Store) Query(q *Query) []Entry {
	opts := Query{}
	if q != nil {
		opts = *q
	}

	var (
		out     []Entry
		skipped int
	)

	for pos, r := range s.records {
		if !opts.Match(r) {
			continue
		}

		if skipped < opts.Offset {
			skipped++

			continue
		}

		out = append(out, Entry{Position: pos, Record: r})

		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}

	return out
}

// FilterByAge returns, in stored order, every record with
// minAge <= age <= maxAge. If minAge > maxAge the result is empty.
func (s *Store) FilterByAge(minAge, maxAge int) []record.Record {
	return records(s.Query(&Query{Age: &Range{Min: minAge, Max: maxAge}}))
}

// FilterByHeight returns, in stored order, every record with
// minHeight <= height <= maxHeight. If minHeight > maxHeight the result is
// empty.
func (s *Store) FilterByHeight(minHeight, maxHeight int) []record.Record {
	return records(s.Query(&Query{Height: &Range{Min: minHeight, Max: maxHeight}}))
}

func records(entries []Entry) []record.Record {
	out := make([]record.Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Record)
	}

	return out
}
