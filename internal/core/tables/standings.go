package tables

import (
	"github.com/JonMunkholm/f1load/internal/core"
	"github.com/JonMunkholm/f1load/internal/schema"
)

// Standing is a championship table entry after the race. ID is the driver
// or the constructor, depending on the championship.
type Standing struct {
	ID           int32
	Points       float64
	Position     int32
	PositionText string
	Wins         int32
}

func init() {
	registerStandings(core.KindDriverStanding, "Driver standings", "driver_id",
		schema.DriverStandingsFile, schema.DriverStandings)
	registerStandings(core.KindConstructorStanding, "Constructor standings", "constructor_id",
		schema.ConstructorStandingsFile, schema.ConstructorStandings)
}

func registerStandings(kind core.Kind, label, idField string, file schema.File, table schema.Table) {
	core.Register(core.EntityDefinition{
		Kind:  kind,
		Label: label,
		File:  file,
		Table: table,
		Decode: func(row *core.Row) (any, error) {
			s := Standing{
				ID:           row.Int(idField),
				Points:       row.Float("points"),
				Position:     row.Int("position"),
				PositionText: row.Text("position_text"),
				Wins:         row.Int("wins"),
			}
			return s, row.Err()
		},
		Values: func(v any) ([]any, error) {
			s, err := record[Standing](v)
			if err != nil {
				return nil, err
			}
			return []any{s.ID, s.Points, s.Position, s.PositionText, s.Wins}, nil
		},
	})
}
