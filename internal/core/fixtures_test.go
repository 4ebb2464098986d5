package core

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"

	"github.com/JonMunkholm/f1load/internal/schema"
)

const kindTestLap Kind = "test_laps"

type testLap struct {
	DriverID int32
	Lap      int32
	Time     time.Duration
	Note     pgtype.Text
}

var testLapFile = schema.File{
	Name: "test_laps.csv",
	Fields: []schema.Field{
		{Name: "driver_id", Type: schema.FieldInt},
		{Name: "lap", Type: schema.FieldInt},
		{Name: "time", Type: schema.FieldLapTime},
		{Name: "note", Type: schema.FieldText, Optional: true, Aliases: []string{"remark"}},
	},
}

var testLapTable = schema.Table{
	Name:    "testLaps",
	Columns: []string{schema.RaceIDColumn, "driverId", "lap", "milliseconds", "note"},
}

func testLapDefinition() EntityDefinition {
	return EntityDefinition{
		Kind:  kindTestLap,
		Label: "Test laps",
		File:  testLapFile,
		Table: testLapTable,
		Decode: func(row *Row) (any, error) {
			l := testLap{
				DriverID: row.Int("driver_id"),
				Lap:      row.Int("lap"),
				Time:     row.LapTime("time"),
				Note:     row.OptText("note"),
			}
			return l, row.Err()
		},
		Values: func(v any) ([]any, error) {
			l, ok := v.(testLap)
			if !ok {
				return nil, errors.Errorf("unexpected record %T", v)
			}
			return []any{l.DriverID, l.Lap, l.Time.Milliseconds(), l.Note}, nil
		},
		Tolerant: true,
	}
}

func init() {
	Register(testLapDefinition())
}
