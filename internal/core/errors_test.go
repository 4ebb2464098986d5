package core

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	parseErr := &ParseError{Kind: "lap time", Text: "1:23.45"}

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "missing input file",
			err:      errors.Wrap(ErrResourceNotFound, "open lap_times.csv"),
			wantCode: "RES001",
		},
		{
			name:     "os not exist",
			err:      &os.PathError{Op: "open", Path: "csv/results.csv", Err: os.ErrNotExist},
			wantCode: "RES001",
		},
		{
			name:     "malformed row",
			err:      &DecodeError{File: "results.csv", Row: 3, Line: 4, Err: errors.New("invalid integer")},
			wantCode: "DEC001",
		},
		{
			name: "time parse failure inside decode error",
			err: &DecodeError{File: "lap_times.csv", Row: 1, Line: 2,
				Err: &FieldError{Field: "time", Value: "1:23.45", Err: parseErr}},
			wantCode: "PAR001",
		},
		{
			name:     "insert rejected",
			err:      &InsertError{Table: "results", Err: &pgconn.PgError{Code: "23503"}},
			wantCode: "INS001",
		},
		{
			name:     "duplicate on strict entity",
			err:      fmt.Errorf("stage pit_stops: %w", &InsertError{Table: "pitStops", Err: &pgconn.PgError{Code: "23505"}}),
			wantCode: "INS002",
		},
		{
			name:     "lookup",
			err:      &LookupError{Query: "driver by number", Key: 99, Err: pgx.ErrNoRows},
			wantCode: "LKP001",
		},
		{
			name:     "database error",
			err:      errors.Wrap(&pgconn.PgError{Code: "40P01"}, "commit"),
			wantCode: "DB001",
		},
		{
			name:     "connect error",
			err:      &pgconn.ConnectError{},
			wantCode: "DB001",
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			wantCode: "DB001",
		},
		{
			name:     "unknown error returns default",
			err:      errors.New("some random internal error"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, Classify(tt.err).Code)
		})
	}
}

func TestDescribe(t *testing.T) {
	err := errors.Wrap(ErrResourceNotFound, "open pit_stops.csv")

	assert.Equal(t, "Input file missing (Code: RES001). Check the CSV folder and the file name", Describe(err))
	assert.Empty(t, Describe(nil))
}
