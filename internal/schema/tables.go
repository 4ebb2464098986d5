// Package schema is the static contract between the loader and the outside
// world: the CSV files it reads and the destination tables it writes.
//
// Nothing here is derived at runtime. Column order in a Table is the order
// in which statement values are bound.
package schema

// Table describes one destination table and its insert column order.
type Table struct {
	Name    string
	Columns []string
}

// RaceIDColumn is the leading column of every destination table.
const RaceIDColumn = "raceId"

var LapTimes = Table{
	Name:    "lapTimes",
	Columns: []string{RaceIDColumn, "driverId", "lap", "position", "time", "milliseconds"},
}

var PitStops = Table{
	Name:    "pitStops",
	Columns: []string{RaceIDColumn, "driverId", "stop", "lap", "time", "duration", "milliseconds"},
}

var Qualifying = Table{
	Name:    "qualifying",
	Columns: []string{RaceIDColumn, "driverId", "constructorId", "number", "position", "q1", "q2", "q3"},
}

var Results = Table{
	Name: "results",
	Columns: []string{
		RaceIDColumn, "driverId", "constructorId", "number", "grid", "position",
		"positionText", "positionOrder", "points", "laps", "time", "milliseconds",
		"fastestLap", "rank", "fastestLapTime", "fastestLapSpeed",
	},
}

var DriverStandings = Table{
	Name:    "driverStandings",
	Columns: []string{RaceIDColumn, "driverId", "points", "position", "positionText", "wins"},
}

var ConstructorStandings = Table{
	Name:    "constructorStandings",
	Columns: []string{RaceIDColumn, "constructorId", "points", "position", "positionText", "wins"},
}

var ConstructorResults = Table{
	Name:    "constructorResults",
	Columns: []string{RaceIDColumn, "constructorId", "points"},
}

// SprintResults is the only table written just on sprint weekends. Sprint
// lap times and constructor sprint points go to LapTimes and
// ConstructorResults.
var SprintResults = Table{
	Name: "sprintResults",
	Columns: []string{
		RaceIDColumn, "driverId", "constructorId", "number", "grid", "position",
		"positionText", "positionOrder", "points", "laps", "time", "milliseconds",
		"fastestLap", "fastestLapTime", "fastestLapSpeed",
	},
}

// Lookup tables read by the loader, never written.
const (
	RacesTable        = "races"
	DriversTable      = "drivers"
	ConstructorsTable = "constructors"
)
