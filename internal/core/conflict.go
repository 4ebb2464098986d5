package core

// conflict.go decides which insert failures a load may survive.
//
// PostgreSQL aborts the whole transaction on the first failed statement, so
// a tolerant insert runs inside a savepoint. On a unique violation the
// savepoint is rolled back and the transaction carries on as if the insert
// had never been attempted.

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const insertSavepoint = "f1load_insert"

// ExecResult is the outcome of a successful Execute.
type ExecResult int

const (
	Inserted ExecResult = iota
	Skipped             // duplicate key tolerated
)

func (r ExecResult) String() string {
	if r == Skipped {
		return "skipped"
	}
	return "inserted"
}

// InsertError reports an insert the destination rejected.
type InsertError struct {
	Table string
	Err   error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert into %s: %v", e.Table, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }

// IsUniqueViolation reports whether err is a uniqueness or primary key conflict.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Execute runs stmt on db. When tolerant is true a unique violation is
// suppressed and reported as Skipped; every other failure, and every failure
// when tolerant is false, is returned as an *InsertError.
func Execute(ctx context.Context, db DBTX, stmt Statement, tolerant bool) (ExecResult, error) {
	if !tolerant {
		if _, err := db.Exec(ctx, stmt.SQL(), stmt.Args...); err != nil {
			return Inserted, &InsertError{Table: stmt.Table.Name, Err: err}
		}
		return Inserted, nil
	}

	if _, err := db.Exec(ctx, "SAVEPOINT "+insertSavepoint); err != nil {
		return Inserted, errors.Wrap(err, "create savepoint")
	}

	_, err := db.Exec(ctx, stmt.SQL(), stmt.Args...)
	if err != nil {
		if !IsUniqueViolation(err) {
			return Inserted, &InsertError{Table: stmt.Table.Name, Err: err}
		}
		if _, rbErr := db.Exec(ctx, "ROLLBACK TO SAVEPOINT "+insertSavepoint); rbErr != nil {
			return Inserted, errors.Wrap(rbErr, "rollback savepoint")
		}
		if _, relErr := db.Exec(ctx, "RELEASE SAVEPOINT "+insertSavepoint); relErr != nil {
			return Inserted, errors.Wrap(relErr, "release savepoint")
		}
		return Skipped, nil
	}

	if _, err := db.Exec(ctx, "RELEASE SAVEPOINT "+insertSavepoint); err != nil {
		return Inserted, errors.Wrap(err, "release savepoint")
	}
	return Inserted, nil
}
