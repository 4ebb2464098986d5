package schema

// FieldType is the expected shape of a CSV cell.
type FieldType int

const (
	FieldInt FieldType = iota
	FieldFloat
	FieldText
	FieldLapTime     // M:SS.mmm
	FieldWallTime    // HH:MM:SS
	FieldPitDuration // SS.mmm
)

// String returns a human-readable name for a field type.
func (t FieldType) String() string {
	switch t {
	case FieldInt:
		return "integer"
	case FieldFloat:
		return "number"
	case FieldText:
		return "text"
	case FieldLapTime:
		return "lap time"
	case FieldWallTime:
		return "time of day"
	case FieldPitDuration:
		return "pit stop duration"
	default:
		return "value"
	}
}

// Field is one expected CSV column.
type Field struct {
	Name     string    // header name, matched case-insensitively
	Type     FieldType // expected cell shape
	Optional bool      // column may be missing and cells may be empty or \N
	Aliases  []string  // older header spellings still accepted
}

// File is one input file and its columns.
type File struct {
	Name   string
	Fields []Field
}

var LapTimesFile = File{
	Name: "lap_times.csv",
	Fields: []Field{
		{Name: "driver_id", Type: FieldInt},
		{Name: "lap", Type: FieldInt},
		{Name: "position", Type: FieldInt},
		{Name: "time", Type: FieldLapTime},
	},
}

var PitStopsFile = File{
	Name: "pit_stops.csv",
	Fields: []Field{
		{Name: "driver_id", Type: FieldInt},
		{Name: "stop", Type: FieldInt},
		{Name: "lap", Type: FieldInt},
		{Name: "time", Type: FieldWallTime},
		{Name: "duration", Type: FieldPitDuration},
	},
}

var QualifyingFile = File{
	Name: "qualifying.csv",
	Fields: []Field{
		{Name: "driver_id", Type: FieldInt},
		{Name: "constructor_id", Type: FieldInt},
		{Name: "position", Type: FieldInt},
		{Name: "number", Type: FieldInt},
		{Name: "q1", Type: FieldText},
		{Name: "q2", Type: FieldText, Optional: true},
		{Name: "q3", Type: FieldText, Optional: true},
	},
}

var ResultsFile = File{
	Name: "results.csv",
	Fields: []Field{
		{Name: "driver_id", Type: FieldInt},
		{Name: "constructor_id", Type: FieldInt},
		{Name: "driver_number", Type: FieldInt},
		{Name: "position", Type: FieldInt, Optional: true},
		{Name: "grid", Type: FieldInt},
		{Name: "position_text", Type: FieldText},
		{Name: "position_order", Type: FieldInt},
		{Name: "points", Type: FieldFloat},
		{Name: "laps", Type: FieldInt},
		{Name: "time", Type: FieldText, Optional: true},
		{Name: "milliseconds", Type: FieldInt, Optional: true},
		{Name: "fastest_lap", Type: FieldInt, Optional: true},
		{Name: "fastest_lap_time", Type: FieldText, Optional: true, Aliases: []string{"fatest_lap_time"}},
		{Name: "rank", Type: FieldInt, Optional: true},
		{Name: "fastest_lap_speed", Type: FieldFloat, Optional: true},
	},
}

var DriverStandingsFile = File{
	Name: "driver_standings.csv",
	Fields: []Field{
		{Name: "driver_id", Type: FieldInt},
		{Name: "points", Type: FieldFloat},
		{Name: "position", Type: FieldInt},
		{Name: "position_text", Type: FieldText},
		{Name: "wins", Type: FieldInt},
	},
}

var ConstructorStandingsFile = File{
	Name: "constructor_standings.csv",
	Fields: []Field{
		{Name: "constructor_id", Type: FieldInt},
		{Name: "points", Type: FieldFloat},
		{Name: "position", Type: FieldInt},
		{Name: "position_text", Type: FieldText},
		{Name: "wins", Type: FieldInt},
	},
}

var ConstructorResultsFile = File{
	Name: "constructor_results.csv",
	Fields: []Field{
		{Name: "constructor_id", Type: FieldInt},
		{Name: "points", Type: FieldFloat},
	},
}

// Sprint weekend files.

var SprintLapTimesFile = File{
	Name:   "sprint_lap_times.csv",
	Fields: LapTimesFile.Fields,
}

var ConstructorSprintResultsFile = File{
	Name:   "constructor_sprint_results.csv",
	Fields: ConstructorResultsFile.Fields,
}

// SprintResultsFile rows name the car and entrant instead of ids; both are
// resolved against the drivers and constructors tables before insert.
var SprintResultsFile = File{
	Name: "sprint_results.csv",
	Fields: []Field{
		{Name: "no", Type: FieldInt},
		{Name: "entrant", Type: FieldText},
		{Name: "grid", Type: FieldInt},
		{Name: "position", Type: FieldText},
		{Name: "positionOrder", Type: FieldInt},
		{Name: "points", Type: FieldFloat},
		{Name: "laps", Type: FieldInt},
		{Name: "time", Type: FieldText, Optional: true},
		{Name: "milliseconds", Type: FieldInt, Optional: true},
		{Name: "fastestLap", Type: FieldInt, Optional: true},
		{Name: "fastestLapTime", Type: FieldText, Optional: true},
		{Name: "fastestLapSpeed", Type: FieldFloat, Optional: true},
	},
}
