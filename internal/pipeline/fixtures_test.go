package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/f1load/internal/core"
	_ "github.com/JonMunkholm/f1load/internal/core/tables"
	"github.com/JonMunkholm/f1load/internal/dbtest"
)

const (
	csvDir = "csv"
	raceID = int32(42)
)

// newStore declares the unique keys of every destination table.
func newStore() *dbtest.Store {
	return dbtest.New().
		UniqueKey("lapTimes", "raceId", "driverId", "lap").
		UniqueKey("pitStops", "raceId", "driverId", "stop").
		UniqueKey("qualifying", "raceId", "driverId").
		UniqueKey("results", "raceId", "driverId").
		UniqueKey("driverStandings", "raceId", "driverId").
		UniqueKey("constructorStandings", "raceId", "constructorId").
		UniqueKey("constructorResults", "raceId", "constructorId").
		UniqueKey("sprintResults", "raceId", "driverId")
}

// raceFiles is one row per core file.
func raceFiles() map[string]string {
	return map[string]string{
		"lap_times.csv": "driver_id,lap,position,time\n" +
			"1,1,1,1:23.456\n",
		"pit_stops.csv": "driver_id,stop,lap,time,duration\n" +
			"1,1,15,14:05:09,23.456\n",
		"qualifying.csv": "driver_id,constructor_id,position,number,q1,q2,q3\n" +
			"1,131,1,44,1:29.708,1:29.049,\n",
		"results.csv": "driver_id,constructor_id,driver_number,position,grid,position_text,position_order,points,laps,time,milliseconds,fastest_lap,fatest_lap_time,rank,fastest_lap_speed\n" +
			"1,131,44,1,2,1,1,25,57,1:31:44.742,5504742,44,1:33.996,1,207.235\n",
		"driver_standings.csv": "driver_id,points,position,position_text,wins\n" +
			"1,25,1,1,1\n",
		"constructor_standings.csv": "constructor_id,points,position,position_text,wins\n" +
			"131,43,1,1,1\n",
		"constructor_results.csv": "constructor_id,points\n" +
			"131,43\n",
	}
}

// headerOnly returns files with the headers of raceFiles and no rows.
func headerOnly() map[string]string {
	files := raceFiles()
	for name, content := range files {
		header, _, _ := strings.Cut(content, "\n")
		files[name] = header + "\n"
	}
	return files
}

func sprintFiles() map[string]string {
	return map[string]string{
		"constructor_sprint_results.csv": "constructor_id,points\n" +
			"9,15\n",
		"sprint_lap_times.csv": "driver_id,lap,position,time\n" +
			"830,1,1,1:35.010\n",
		"sprint_results.csv": "no,entrant,grid,position,positionOrder,points,laps,time,milliseconds,fastestLap,fastestLapTime,fastestLapSpeed\n" +
			"1,Red  Bull ,1,1,1,8,19,30:15.762,1815762,5,1:34.001,\\N\n" +
			"44,Mercedes,5,DNF,20,0,3,,,,,\n",
	}
}

func seedReferences(s *dbtest.Store) *dbtest.Store {
	return s.
		Seed("drivers",
			dbtest.Row{"driverId": 830, "number": 33},
			dbtest.Row{"driverId": 1, "number": 44},
		).
		Seed("constructors",
			dbtest.Row{"constructorId": 9, "name": "Red Bull"},
			dbtest.Row{"constructorId": 131, "name": "Mercedes"},
		)
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(csvDir, name), []byte(content), 0o644))
	}
}

func newTestLoader(t *testing.T, db core.Beginner, files map[string]string) (*Loader, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, files)
	return NewLoader(db, csvDir, WithFs(fs), WithMetrics(NewMetrics())), fs
}

// beginFunc adapts a function to core.Beginner.
type beginFunc func(context.Context) (pgx.Tx, error)

func (f beginFunc) Begin(ctx context.Context) (pgx.Tx, error) { return f(ctx) }
