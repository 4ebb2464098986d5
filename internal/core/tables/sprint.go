package tables

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/f1load/internal/core"
	"github.com/JonMunkholm/f1load/internal/schema"
)

// SprintResult is one driver's sprint classification. The sheet names the
// car and the entrant; DriverID and ConstructorID are filled in by lookup.
type SprintResult struct {
	CarNumber       int32
	Entrant         string
	DriverID        int32
	ConstructorID   int32
	Grid            int32
	PositionText    string
	PositionOrder   int32
	Points          float64
	Laps            int32
	Time            pgtype.Text
	Milliseconds    pgtype.Int4
	FastestLap      pgtype.Int4
	FastestLapTime  pgtype.Text
	FastestLapSpeed pgtype.Float8
}

func init() {
	registerSprintResults()
}

func resolveSprintResult(ctx context.Context, db core.DBTX, v any) (any, error) {
	sr, err := record[SprintResult](v)
	if err != nil {
		return nil, err
	}

	sr.DriverID, err = core.DriverIDByNumber(ctx, db, sr.CarNumber)
	if err != nil {
		return nil, err
	}
	sr.ConstructorID, err = core.ConstructorIDByName(ctx, db, sr.Entrant)
	if err != nil {
		return nil, err
	}
	return sr, nil
}

func registerSprintResults() {
	core.Register(core.EntityDefinition{
		Kind:  core.KindSprintResult,
		Label: "Sprint results",
		File:  schema.SprintResultsFile,
		Table: schema.SprintResults,
		Decode: func(row *core.Row) (any, error) {
			sr := SprintResult{
				CarNumber:       row.Int("no"),
				Entrant:         NormalizeEntrant(row.Text("entrant")),
				Grid:            row.Int("grid"),
				PositionText:    row.Text("position"),
				PositionOrder:   row.Int("positionOrder"),
				Points:          row.Float("points"),
				Laps:            row.Int("laps"),
				Time:            row.OptText("time"),
				Milliseconds:    row.OptInt("milliseconds"),
				FastestLap:      row.OptInt("fastestLap"),
				FastestLapTime:  row.OptText("fastestLapTime"),
				FastestLapSpeed: row.OptFloat("fastestLapSpeed"),
			}
			return sr, row.Err()
		},
		Resolve: resolveSprintResult,
		Values: func(v any) ([]any, error) {
			sr, err := record[SprintResult](v)
			if err != nil {
				return nil, err
			}
			return []any{
				sr.DriverID,
				sr.ConstructorID,
				sr.CarNumber,
				sr.Grid,
				ClassifiedPosition(sr.PositionText),
				sr.PositionText,
				sr.PositionOrder,
				sr.Points,
				sr.Laps,
				sr.Time,
				sr.Milliseconds,
				sr.FastestLap,
				sr.FastestLapTime,
				sr.FastestLapSpeed,
			}, nil
		},
	})
}
