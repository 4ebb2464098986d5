package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"
)

// FieldError reports a cell that could not be read as its declared type.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field %q: %v (value %q)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

var errEmptyField = errors.New("empty required field")

// Row gives typed access to the cells of one CSV record.
//
// Accessors never fail directly: the first error is kept and reported by
// Err, and later accessors return zero values. Decode functions read every
// field and then return Err once.
type Row struct {
	cells []string
	idx   HeaderIndex
	err   *FieldError
}

// NewRow wraps a record read under the given header index.
func NewRow(cells []string, idx HeaderIndex) *Row {
	return &Row{cells: cells, idx: idx}
}

// Err returns the first field error, or nil.
func (r *Row) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

func (r *Row) fail(field, value string, err error) {
	if r.err == nil {
		r.err = &FieldError{Field: field, Value: value, Err: err}
	}
}

// cell returns the cleaned value of a column, or "" if the column is absent.
func (r *Row) cell(field string) string {
	pos, ok := r.idx[strings.ToLower(field)]
	if !ok || pos >= len(r.cells) {
		return ""
	}
	return CleanCell(r.cells[pos])
}

// required returns a non-null cell or records an error.
func (r *Row) required(field string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	s := r.cell(field)
	if IsNull(s) {
		r.fail(field, s, errEmptyField)
		return "", false
	}
	return s, true
}

// optional returns a cell and whether it holds a value.
func (r *Row) optional(field string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	s := r.cell(field)
	return s, !IsNull(s)
}

func (r *Row) Int(field string) int32 {
	s, ok := r.required(field)
	if !ok {
		return 0
	}
	n, err := ParseInt4(s)
	if err != nil {
		r.fail(field, s, errors.New("invalid integer"))
	}
	return n
}

func (r *Row) OptInt(field string) pgtype.Int4 {
	s, ok := r.optional(field)
	if !ok {
		return pgtype.Int4{}
	}
	n, err := ParseInt4(s)
	if err != nil {
		r.fail(field, s, errors.New("invalid integer"))
		return pgtype.Int4{}
	}
	return ToPgInt4(n)
}

func (r *Row) Float(field string) float64 {
	s, ok := r.required(field)
	if !ok {
		return 0
	}
	f, err := ParseFloat8(s)
	if err != nil {
		r.fail(field, s, errors.New("invalid number"))
	}
	return f
}

func (r *Row) OptFloat(field string) pgtype.Float8 {
	s, ok := r.optional(field)
	if !ok {
		return pgtype.Float8{}
	}
	f, err := ParseFloat8(s)
	if err != nil {
		r.fail(field, s, errors.New("invalid number"))
		return pgtype.Float8{}
	}
	return ToPgFloat8(f)
}

// Text returns a required cell verbatim after cleanup.
func (r *Row) Text(field string) string {
	s, _ := r.required(field)
	return s
}

// TextOrEmpty returns a cell verbatim after cleanup, with empty and null
// cells read as "".
func (r *Row) TextOrEmpty(field string) string {
	s, ok := r.optional(field)
	if !ok {
		return ""
	}
	return s
}

func (r *Row) OptText(field string) pgtype.Text {
	s, ok := r.optional(field)
	if !ok {
		return pgtype.Text{}
	}
	return ToPgText(s)
}

func (r *Row) LapTime(field string) time.Duration {
	s, ok := r.required(field)
	if !ok {
		return 0
	}
	d, err := ParseLapDuration(s)
	if err != nil {
		r.fail(field, s, err)
	}
	return d
}

func (r *Row) PitDuration(field string) time.Duration {
	s, ok := r.required(field)
	if !ok {
		return 0
	}
	d, err := ParsePitStopDuration(s)
	if err != nil {
		r.fail(field, s, err)
	}
	return d
}

func (r *Row) WallTime(field string) time.Time {
	s, ok := r.required(field)
	if !ok {
		return time.Time{}
	}
	t, err := ParseWallTime(s)
	if err != nil {
		r.fail(field, s, err)
	}
	return t
}
