package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/JonMunkholm/f1load/internal/schema"
)

// Named lookups. Each takes its key as a bound parameter.
var (
	raceIDByRoundSQL       = fmt.Sprintf(`SELECT "raceId" FROM %s WHERE round = $1 AND year = $2`, schema.RacesTable)
	driverIDByNumberSQL    = fmt.Sprintf(`SELECT "driverId" FROM %s WHERE number = $1`, schema.DriversTable)
	constructorIDByNameSQL = fmt.Sprintf(`SELECT "constructorId" FROM %s WHERE name = $1`, schema.ConstructorsTable)
)

// LookupError reports a referenced race, driver or constructor that does not exist.
type LookupError struct {
	Query string // name of the lookup, e.g. "driver by number"
	Key   any
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s %v: %v", e.Query, e.Key, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func lookupInt4(ctx context.Context, db DBTX, name, query string, key any, args ...any) (int32, error) {
	var id int32
	if err := db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &LookupError{Query: name, Key: key, Err: err}
		}
		return 0, errors.Wrapf(err, "lookup %s %v", name, key)
	}
	return id, nil
}

// RaceIDByRound resolves the race held at round in year.
func RaceIDByRound(ctx context.Context, db DBTX, round, year int) (int32, error) {
	key := fmt.Sprintf("round %d of %d", round, year)
	return lookupInt4(ctx, db, "race", raceIDByRoundSQL, key, round, year)
}

// SprintCarNumber maps a car number on the sprint sheet to the number
// stored for its driver. Car 1 is the champion's number and is recorded
// against the driver's permanent number 33.
func SprintCarNumber(no int32) int32 {
	if no == 1 {
		return 33
	}
	return no
}

// DriverIDByNumber resolves a driver from a sprint sheet car number.
func DriverIDByNumber(ctx context.Context, db DBTX, carNumber int32) (int32, error) {
	number := SprintCarNumber(carNumber)
	return lookupInt4(ctx, db, "driver by number", driverIDByNumberSQL, number, number)
}

// ConstructorIDByName resolves a constructor from its entrant name.
func ConstructorIDByName(ctx context.Context, db DBTX, name string) (int32, error) {
	return lookupInt4(ctx, db, "constructor by name", constructorIDByNameSQL, name, name)
}
