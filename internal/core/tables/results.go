package tables

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/f1load/internal/core"
	"github.com/JonMunkholm/f1load/internal/schema"
)

// QualifyingResult is one driver's qualifying session. Q1 is "" for a
// driver who set no time; Q2 and Q3 are absent for drivers knocked out
// before them.
type QualifyingResult struct {
	DriverID      int32
	ConstructorID int32
	Number        int32
	Position      int32
	Q1            string
	Q2            pgtype.Text
	Q3            pgtype.Text
}

// RaceResult is one driver's classification at the end of the race.
type RaceResult struct {
	DriverID        int32
	ConstructorID   int32
	Number          int32
	Grid            int32
	Position        pgtype.Int4 // absent when not classified
	PositionText    string
	PositionOrder   int32
	Points          float64
	Laps            int32
	Time            pgtype.Text
	Milliseconds    pgtype.Int4
	FastestLap      pgtype.Int4
	Rank            pgtype.Int4
	FastestLapTime  pgtype.Text
	FastestLapSpeed pgtype.Float8
}

// ConstructorResult is the points a constructor scored in one race or sprint.
type ConstructorResult struct {
	ConstructorID int32
	Points        float64
}

func init() {
	registerQualifying()
	registerRaceResults()
	registerConstructorResults()
	registerConstructorSprintResults()
}

func registerQualifying() {
	core.Register(core.EntityDefinition{
		Kind:  core.KindQualifying,
		Label: "Qualifying",
		File:  schema.QualifyingFile,
		Table: schema.Qualifying,
		Decode: func(row *core.Row) (any, error) {
			q := QualifyingResult{
				DriverID:      row.Int("driver_id"),
				ConstructorID: row.Int("constructor_id"),
				Number:        row.Int("number"),
				Position:      row.Int("position"),
				Q1:            row.TextOrEmpty("q1"),
				Q2:            row.OptText("q2"),
				Q3:            row.OptText("q3"),
			}
			return q, row.Err()
		},
		Values: func(v any) ([]any, error) {
			q, err := record[QualifyingResult](v)
			if err != nil {
				return nil, err
			}
			return []any{q.DriverID, q.ConstructorID, q.Number, q.Position, q.Q1, q.Q2, q.Q3}, nil
		},
	})
}

func registerRaceResults() {
	core.Register(core.EntityDefinition{
		Kind:  core.KindRaceResult,
		Label: "Race results",
		File:  schema.ResultsFile,
		Table: schema.Results,
		Decode: func(row *core.Row) (any, error) {
			r := RaceResult{
				DriverID:        row.Int("driver_id"),
				ConstructorID:   row.Int("constructor_id"),
				Number:          row.Int("driver_number"),
				Position:        row.OptInt("position"),
				Grid:            row.Int("grid"),
				PositionText:    row.Text("position_text"),
				PositionOrder:   row.Int("position_order"),
				Points:          row.Float("points"),
				Laps:            row.Int("laps"),
				Time:            row.OptText("time"),
				Milliseconds:    row.OptInt("milliseconds"),
				FastestLap:      row.OptInt("fastest_lap"),
				FastestLapTime:  row.OptText("fastest_lap_time"),
				Rank:            row.OptInt("rank"),
				FastestLapSpeed: row.OptFloat("fastest_lap_speed"),
			}
			return r, row.Err()
		},
		Values: func(v any) ([]any, error) {
			r, err := record[RaceResult](v)
			if err != nil {
				return nil, err
			}
			return []any{
				r.DriverID,
				r.ConstructorID,
				r.Number,
				r.Grid,
				r.Position,
				r.PositionText,
				r.PositionOrder,
				r.Points,
				r.Laps,
				r.Time,
				r.Milliseconds,
				r.FastestLap,
				r.Rank,
				r.FastestLapTime,
				r.FastestLapSpeed,
			}, nil
		},
	})
}

func decodeConstructorResult(row *core.Row) (any, error) {
	cr := ConstructorResult{
		ConstructorID: row.Int("constructor_id"),
		Points:        row.Float("points"),
	}
	return cr, row.Err()
}

func constructorResultValues(v any) ([]any, error) {
	cr, err := record[ConstructorResult](v)
	if err != nil {
		return nil, err
	}
	return []any{cr.ConstructorID, cr.Points}, nil
}

func registerConstructorResults() {
	core.Register(core.EntityDefinition{
		Kind:   core.KindConstructorResult,
		Label:  "Constructor results",
		File:   schema.ConstructorResultsFile,
		Table:  schema.ConstructorResults,
		Decode: decodeConstructorResult,
		Values: constructorResultValues,
	})
}

func registerConstructorSprintResults() {
	core.Register(core.EntityDefinition{
		Kind:   core.KindConstructorSprintResult,
		Label:  "Constructor sprint results",
		File:   schema.ConstructorSprintResultsFile,
		Table:  schema.ConstructorResults,
		Decode: decodeConstructorResult,
		Values: constructorResultValues,
	})
}
