package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"

	"github.com/pkg/errors"
)

// DecodeError reports the first row of a file that could not be decoded.
// Row is the 1-based data row (the header is row 0); Line is the line in the
// file where that row starts.
type DecodeError struct {
	Entity Kind
	File   string
	Row    int
	Line   int
	Field  string // empty when the whole row is at fault
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("decode %s: header: %v", e.File, e.Err)
	}
	return fmt.Sprintf("decode %s: row %d (line %d): %v", e.File, e.Row, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder reads one entity's CSV file as a lazy sequence of records.
//
// The sequence is finite and cannot be restarted. Decoding is strict: the
// first bad row ends it with a *DecodeError and every later call returns
// the same error.
type Decoder struct {
	def  EntityDefinition
	r    *csv.Reader
	idx  HeaderIndex
	rows int
	line int
	err  error
}

// NewDecoder reads and validates the header row of r.
func NewDecoder(r io.Reader, def EntityDefinition) (*Decoder, error) {
	cr := csv.NewReader(SkipBOM(r))
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &DecodeError{Entity: def.Kind, File: def.File.Name, Line: 1, Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, &DecodeError{Entity: def.Kind, File: def.File.Name, Line: 1, Err: err}
	}

	idx, err := ValidateHeaders(header, def.File)
	if err != nil {
		return nil, &DecodeError{Entity: def.Kind, File: def.File.Name, Line: 1, Err: err}
	}

	// Every data row must match the header's arity.
	cr.FieldsPerRecord = len(header)

	return &Decoder{def: def, r: cr, idx: idx}, nil
}

// Next returns the next record, or io.EOF when the file is exhausted.
func (d *Decoder) Next() (any, error) {
	if d.err != nil {
		return nil, d.err
	}

	cells, err := d.r.Read()
	if err == io.EOF {
		d.err = io.EOF
		return nil, io.EOF
	}
	d.rows++

	if err != nil {
		line := d.rows + 1
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			line = pe.StartLine
		}
		d.line = line
		d.err = &DecodeError{Entity: d.def.Kind, File: d.def.File.Name, Row: d.rows, Line: line, Err: err}
		return nil, d.err
	}

	line, _ := d.r.FieldPos(0)
	d.line = line
	row := NewRow(cells, d.idx)

	rec, err := d.def.Decode(row)
	if err != nil {
		de := &DecodeError{Entity: d.def.Kind, File: d.def.File.Name, Row: d.rows, Line: line, Err: err}
		var fe *FieldError
		if errors.As(err, &fe) {
			de.Field = fe.Field
		}
		d.err = de
		return nil, d.err
	}

	return rec, nil
}

// Rows returns the number of data rows read so far, including a failed one.
func (d *Decoder) Rows() int { return d.rows }

// Line returns the line where the most recently read row starts.
func (d *Decoder) Line() int { return d.line }

// All returns the remaining records as a single-use sequence.
// Iteration stops after the first error, which is yielded with a nil record.
func (d *Decoder) All() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for {
			rec, err := d.Next()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}
