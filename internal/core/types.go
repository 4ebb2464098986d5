package core

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/f1load/internal/schema"
)

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Beginner starts the transaction a load runs in.
// Satisfied by *pgxpool.Pool and *pgx.Conn.
type Beginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// Kind identifies one entity shape.
type Kind string

const (
	KindLapTime             Kind = "lap_times"
	KindPitStop             Kind = "pit_stops"
	KindQualifying          Kind = "qualifying"
	KindRaceResult          Kind = "results"
	KindDriverStanding      Kind = "driver_standings"
	KindConstructorStanding Kind = "constructor_standings"
	KindConstructorResult   Kind = "constructor_results"

	KindConstructorSprintResult Kind = "constructor_sprint_results"
	KindSprintLapTime           Kind = "sprint_lap_times"
	KindSprintResult            Kind = "sprint_results"
)

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// DecodeFunc builds a typed record from one CSV row.
// The row has already been checked for arity against the header.
type DecodeFunc func(row *Row) (any, error)

// ValuesFunc returns a record's column values in table column order,
// excluding the leading race id.
type ValuesFunc func(record any) ([]any, error)

// ResolveFunc replaces the references a record names (a car number, an
// entrant) with database ids. It runs inside the load transaction.
type ResolveFunc func(ctx context.Context, db DBTX, record any) (any, error)

// EntityDefinition contains everything needed to load one entity shape.
type EntityDefinition struct {
	Kind    Kind
	Label   string       // Display name: "Lap times"
	File    schema.File  // Source file and its columns
	Table   schema.Table // Destination table and column order
	Decode  DecodeFunc
	Resolve ResolveFunc // optional
	Values  ValuesFunc

	// Tolerant marks entities whose reruns may resubmit rows already
	// loaded. Unique violations on insert are skipped instead of failing.
	Tolerant bool
}
