package store_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/calvinalkan/people/internal/record"
	"github.com/calvinalkan/people/internal/store"
)

var (
	anna = record.Record{Name: "Anna", Age: 30, Height: 170}
	bo   = record.Record{Name: "Bo", Age: 15, Height: 160}
	cleo = record.Record{Name: "Cleo", Age: 42, Height: 181}
)

var errBrokenStream = errors.New("broken stream")

// failingReader yields data and then fails instead of returning EOF.
type failingReader struct {
	data string
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errBrokenStream
	}

	r.done = true

	return copy(p, r.data), nil
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errBrokenStream }

func assertRecords(t *testing.T, s *store.Store, want []record.Record) {
	t.Helper()

	if diff := cmp.Diff(want, s.List(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

// Contract: the Anna/Bo scenario filters by age and survives a save/load cycle in order.
func Test_Store_EndToEnd_Scenario(t *testing.T) {
	t.Parallel()

	s := &store.Store{}
	s.Add(anna)
	s.Add(bo)

	got := s.FilterByAge(20, 40)
	if diff := cmp.Diff([]record.Record{anna}, got); diff != "" {
		t.Fatalf("FilterByAge(20, 40) mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer

	err := s.SaveTo(&buf)
	if err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	if buf.String() != "Anna 30 170\nBo 15 160\n" {
		t.Fatalf("saved text = %q", buf.String())
	}

	fresh := &store.Store{}

	err = fresh.LoadFrom(&buf)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	assertRecords(t, fresh, []record.Record{anna, bo})
}

// Contract: Add appends in insertion order and Get returns each record by position.
func Test_Add_Appends_In_Order(t *testing.T) {
	t.Parallel()

	s := store.New(anna)
	s.Add(bo)
	s.Add(cleo)

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	for pos, want := range []record.Record{anna, bo, cleo} {
		got, err := s.Get(pos)
		if err != nil {
			t.Fatalf("Get(%d): %v", pos, err)
		}

		if got != want {
			t.Fatalf("Get(%d) = %v, want %v", pos, got, want)
		}
	}
}

// Contract: Update replaces exactly one record and keeps the others in place.
func Test_Update_Replaces_Record_At_Position(t *testing.T) {
	t.Parallel()

	s := store.New(anna, bo, cleo)

	err := s.Update(1, record.Record{Name: "Bob", Age: 16, Height: 165})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	assertRecords(t, s, []record.Record{anna, {Name: "Bob", Age: 16, Height: 165}, cleo})
}

// Contract: Delete shifts later positions down by one.
func Test_Delete_Shifts_Later_Positions(t *testing.T) {
	t.Parallel()

	s := store.New(anna, bo, cleo)

	err := s.Delete(0)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	assertRecords(t, s, []record.Record{bo, cleo})

	got, err := s.Get(0)
	if err != nil || got != bo {
		t.Fatalf("Get(0) = %v, %v; want %v", got, err, bo)
	}
}

// Contract: out-of-range positions fail with IndexError and never mutate the store.
func Test_Positional_Ops_Return_IndexError_When_Out_Of_Range(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		op   func(s *store.Store) error
		pos  int
	}{
		{name: "delete at len", pos: 2, op: func(s *store.Store) error { return s.Delete(2) }},
		{name: "delete negative", pos: -1, op: func(s *store.Store) error { return s.Delete(-1) }},
		{name: "update negative", pos: -1, op: func(s *store.Store) error { return s.Update(-1, cleo) }},
		{name: "update at len", pos: 2, op: func(s *store.Store) error { return s.Update(2, cleo) }},
		{name: "get at len", pos: 2, op: func(s *store.Store) error { _, err := s.Get(2); return err }},
		{name: "get negative", pos: -3, op: func(s *store.Store) error { _, err := s.Get(-3); return err }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := store.New(anna, bo)

			err := tt.op(s)
			if !errors.Is(err, store.ErrIndexOutOfRange) {
				t.Fatalf("error = %v, want ErrIndexOutOfRange", err)
			}

			var ie *store.IndexError
			if !errors.As(err, &ie) {
				t.Fatalf("error type = %T, want *IndexError", err)
			}

			if ie.Position != tt.pos || ie.Len != 2 {
				t.Fatalf("IndexError = %+v, want {Position: %d, Len: 2}", *ie, tt.pos)
			}

			assertRecords(t, s, []record.Record{anna, bo})
		})
	}
}

// Contract: positional ops on an empty store always fail.
func Test_Get_Fails_When_Store_Empty(t *testing.T) {
	t.Parallel()

	var s store.Store

	_, err := s.Get(0)
	if !errors.Is(err, store.ErrIndexOutOfRange) {
		t.Fatalf("Get(0) on empty store: %v", err)
	}
}

// Contract: List is idempotent and its result does not alias the store.
func Test_List_Returns_Copy(t *testing.T) {
	t.Parallel()

	s := store.New(anna, bo)

	first := s.List()
	second := s.List()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("List() not idempotent (-first +second):\n%s", diff)
	}

	first[0].Name = "Mallory"
	_ = append(first[:1], cleo)

	assertRecords(t, s, []record.Record{anna, bo})
}

// Contract: New copies its input so the caller's slice is not aliased.
func Test_New_Copies_Input(t *testing.T) {
	t.Parallel()

	in := []record.Record{anna, bo}
	s := store.New(in...)

	in[0] = cleo

	assertRecords(t, s, []record.Record{anna, bo})
}

// Contract: LoadFrom skips blank and whitespace-only lines anywhere and tolerates a missing final newline.
func Test_LoadFrom_Skips_Blank_Lines(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name  string
		input string
		want  []record.Record
	}{
		{name: "empty input", input: "", want: nil},
		{name: "only blank lines", input: "\n   \n\t\n", want: nil},
		{name: "no final newline", input: "Anna 30 170\nBo 15 160", want: []record.Record{anna, bo}},
		{name: "trailing blank lines", input: "Anna 30 170\n\n\n", want: []record.Record{anna}},
		{name: "blank line between records", input: "Anna 30 170\n  \nBo 15 160\n", want: []record.Record{anna, bo}},
		{name: "crlf line endings", input: "Anna 30 170\r\nBo 15 160\r\n\r\n", want: []record.Record{anna, bo}},
		{name: "whitespace-only last line without newline", input: "Anna 30 170\n \t ", want: []record.Record{anna}},
		{name: "extra field whitespace", input: "  Anna   30\t170  \n", want: []record.Record{anna}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &store.Store{}

			err := s.LoadFrom(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("LoadFrom(%q): %v", tt.input, err)
			}

			assertRecords(t, s, tt.want)
		})
	}
}

// Contract: LoadFrom replaces existing contents on success.
func Test_LoadFrom_Replaces_Existing_Records(t *testing.T) {
	t.Parallel()

	s := store.New(anna, bo)

	err := s.LoadFrom(strings.NewReader("Cleo 42 181\n"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	assertRecords(t, s, []record.Record{cleo})
}

// Contract: a malformed line aborts the load, reports its 1-based number and leaves the store unchanged.
func Test_LoadFrom_Is_Atomic_When_Line_Malformed(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name     string
		input    string
		wantLine int
		wantText string
		wantErr  error
	}{
		{
			name:     "third line has two fields",
			input:    "X 1 2\nY 3 4\nbroken 5\nZ 6 7\n",
			wantLine: 3,
			wantText: "broken 5",
			wantErr:  record.ErrFieldCount,
		},
		{
			name:     "line numbers count skipped blank lines",
			input:    "X 1 2\n\nY three 4\n",
			wantLine: 3,
			wantText: "Y three 4",
			wantErr:  record.ErrInvalidAge,
		},
		{
			name:     "first line bad height",
			input:    "X 1 two\r\n",
			wantLine: 1,
			wantText: "X 1 two",
			wantErr:  record.ErrInvalidHeight,
		},
		{
			name:     "malformed last line without newline",
			input:    "X 1 2\nY 3 4 5",
			wantLine: 2,
			wantText: "Y 3 4 5",
			wantErr:  record.ErrFieldCount,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := store.New(anna, bo, cleo)

			err := s.LoadFrom(strings.NewReader(tt.input))
			if !errors.Is(err, record.ErrFormat) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadFrom error = %v, want ErrFormat wrapping %v", err, tt.wantErr)
			}

			var fe *record.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error type = %T, want *record.FormatError", err)
			}

			if fe.Line != tt.wantLine || fe.Text != tt.wantText {
				t.Fatalf("FormatError = {Line: %d, Text: %q}, want {Line: %d, Text: %q}",
					fe.Line, fe.Text, tt.wantLine, tt.wantText)
			}

			assertRecords(t, s, []record.Record{anna, bo, cleo})
		})
	}
}

// Contract: a reader failure mid-stream surfaces as IOError carrying the reader's error, store unchanged.
func Test_LoadFrom_Returns_IOError_When_Reader_Fails(t *testing.T) {
	t.Parallel()

	s := store.New(anna)

	err := s.LoadFrom(&failingReader{data: "Bo 15 160\nCleo 42"})
	if !errors.Is(err, store.ErrIO) {
		t.Fatalf("error = %v, want ErrIO", err)
	}

	if !errors.Is(err, errBrokenStream) {
		t.Fatalf("error = %v, want it to wrap the reader error", err)
	}

	var ioe *store.IOError
	if !errors.As(err, &ioe) || ioe.Op != "read" {
		t.Fatalf("error = %#v, want *IOError{Op: read}", err)
	}

	assertRecords(t, s, []record.Record{anna})
}

// Contract: SaveTo writes one line per record in stored order.
func Test_SaveTo_Writes_Records_In_Order(t *testing.T) {
	t.Parallel()

	s := store.New(cleo, anna, record.Record{Name: "Ghost", Age: -5, Height: 999})

	var buf bytes.Buffer

	err := s.SaveTo(&buf)
	if err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	want := "Cleo 42 181\nAnna 30 170\nGhost -5 999\n"
	if buf.String() != want {
		t.Fatalf("SaveTo wrote %q, want %q", buf.String(), want)
	}
}

// Contract: saving an empty store writes nothing.
func Test_SaveTo_Writes_Nothing_When_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := (&store.Store{}).SaveTo(&buf)
	if err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	if buf.Len() != 0 {
		t.Fatalf("SaveTo wrote %q, want nothing", buf.String())
	}
}

// Contract: writer failures propagate as IOError wrapping the writer's own error.
func Test_SaveTo_Returns_IOError_When_Writer_Fails(t *testing.T) {
	t.Parallel()

	s := store.New(anna, bo)

	err := s.SaveTo(failingWriter{})
	if !errors.Is(err, store.ErrIO) || !errors.Is(err, errBrokenStream) {
		t.Fatalf("error = %v, want ErrIO wrapping errBrokenStream", err)
	}

	assertRecords(t, s, []record.Record{anna, bo})
}

// Contract: SaveTo output loads back into an equal store.
func Test_SaveTo_LoadFrom_RoundTrip(t *testing.T) {
	t.Parallel()

	s := store.New(anna, bo, cleo, record.Record{Name: "Миса", Age: 19, Height: 159})

	pr, pw := io.Pipe()

	go func() {
		_ = pw.CloseWithError(s.SaveTo(pw))
	}()

	loaded := &store.Store{}

	err := loaded.LoadFrom(pr)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	assertRecords(t, loaded, s.List())
}
