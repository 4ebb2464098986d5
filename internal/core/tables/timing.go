package tables

import (
	"time"

	"github.com/JonMunkholm/f1load/internal/core"
	"github.com/JonMunkholm/f1load/internal/schema"
)

// LapTime is one driver's lap. Reruns may resubmit laps already loaded.
type LapTime struct {
	DriverID int32
	Lap      int32
	Position int32
	Time     time.Duration
}

// PitStop is one stop in the pit lane. Time is the time of day of the stop.
type PitStop struct {
	DriverID int32
	Stop     int32
	Lap      int32
	Time     time.Time
	Duration time.Duration
}

func init() {
	registerLapTimes()
	registerPitStops()
	registerSprintLapTimes()
}

func decodeLapTime(row *core.Row) (any, error) {
	lt := LapTime{
		DriverID: row.Int("driver_id"),
		Lap:      row.Int("lap"),
		Position: row.Int("position"),
		Time:     row.LapTime("time"),
	}
	return lt, row.Err()
}

func lapTimeValues(v any) ([]any, error) {
	lt, err := record[LapTime](v)
	if err != nil {
		return nil, err
	}
	return []any{
		lt.DriverID,
		lt.Lap,
		lt.Position,
		core.FormatLapDuration(lt.Time),
		lt.Time.Milliseconds(),
	}, nil
}

func registerLapTimes() {
	core.Register(core.EntityDefinition{
		Kind:     core.KindLapTime,
		Label:    "Lap times",
		File:     schema.LapTimesFile,
		Table:    schema.LapTimes,
		Decode:   decodeLapTime,
		Values:   lapTimeValues,
		Tolerant: true,
	})
}

// registerSprintLapTimes writes sprint laps into the race lap table. They
// are strict: a sprint lap whose key is already taken aborts the run rather
// than being dropped.
func registerSprintLapTimes() {
	core.Register(core.EntityDefinition{
		Kind:   core.KindSprintLapTime,
		Label:  "Sprint lap times",
		File:   schema.SprintLapTimesFile,
		Table:  schema.LapTimes,
		Decode: decodeLapTime,
		Values: lapTimeValues,
	})
}

func registerPitStops() {
	core.Register(core.EntityDefinition{
		Kind:  core.KindPitStop,
		Label: "Pit stops",
		File:  schema.PitStopsFile,
		Table: schema.PitStops,
		Decode: func(row *core.Row) (any, error) {
			ps := PitStop{
				DriverID: row.Int("driver_id"),
				Stop:     row.Int("stop"),
				Lap:      row.Int("lap"),
				Time:     row.WallTime("time"),
				Duration: row.PitDuration("duration"),
			}
			return ps, row.Err()
		},
		Values: func(v any) ([]any, error) {
			ps, err := record[PitStop](v)
			if err != nil {
				return nil, err
			}
			return []any{
				ps.DriverID,
				ps.Stop,
				ps.Lap,
				core.ToPgTime(ps.Time),
				core.FormatPitStopDuration(ps.Duration),
				ps.Duration.Milliseconds(),
			}, nil
		},
	})
}
