// Error Code Reference
//
// Every failure that ends a load is reported with a stable code so that an
// operator can tell a bad input file from a database problem at a glance.
//
// # Input Errors (RES, DEC, PAR)
//
//	RES001 - Input file missing: An expected CSV file is not in the input folder
//	         Action: Check the CSV folder and the file name
//
//	DEC001 - Malformed row: A row or header could not be decoded
//	         Action: Fix the reported line of the file and rerun
//
//	PAR001 - Invalid time: A lap time, pit stop duration or time of day is malformed
//	         Action: Use M:SS.mmm, SS.mmm or HH:MM:SS exactly
//
// # Insert Errors (INS)
//
//	INS001 - Insert rejected: The database refused a row
//	         Action: Check the row against the table constraints
//
//	INS002 - Duplicate row: A row already exists for a table that does not tolerate duplicates
//	         Action: The race may already be loaded; nothing from this run was kept
//
// # Lookup Errors (LKP)
//
//	LKP001 - Unknown reference: A race, driver or constructor could not be resolved
//	         Action: Load the reference data first or fix the sprint sheet
//
// # Database Errors (DB)
//
//	DB001 - Database error: The connection or transaction failed
//	        Action: Check connectivity and rerun; the run was rolled back
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the log for the original error
//
// Classification walks the error chain with errors.As, so the most specific
// match is tested first: a time parse failure inside a decode error is PAR001.
package core

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// ErrResourceNotFound is returned when an expected input file does not exist.
var ErrResourceNotFound = errors.New("resource not found")

// ErrorClass is the operator-facing description of a failure.
type ErrorClass struct {
	Code    string // Stable code for the final log line
	Message string // What happened
	Action  string // What to do about it
}

var (
	classResourceNotFound = ErrorClass{Code: "RES001", Message: "Input file missing", Action: "Check the CSV folder and the file name"}
	classDecode           = ErrorClass{Code: "DEC001", Message: "Malformed row", Action: "Fix the reported line of the file and rerun"}
	classParse            = ErrorClass{Code: "PAR001", Message: "Invalid time", Action: "Use M:SS.mmm, SS.mmm or HH:MM:SS exactly"}
	classInsert           = ErrorClass{Code: "INS001", Message: "Insert rejected", Action: "Check the row against the table constraints"}
	classDuplicate        = ErrorClass{Code: "INS002", Message: "Duplicate row", Action: "The race may already be loaded; nothing from this run was kept"}
	classLookup           = ErrorClass{Code: "LKP001", Message: "Unknown reference", Action: "Load the reference data first or fix the sprint sheet"}
	classDatabase         = ErrorClass{Code: "DB001", Message: "Database error", Action: "Check connectivity and rerun; the run was rolled back"}
	classUnknown          = ErrorClass{Code: "ERR000", Message: "An unexpected error occurred", Action: "Check the log for the original error"}
)

// Classify maps an error to its class. A nil error yields the zero class.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorClass{}
	}

	var (
		lookupErr *LookupError
		parseErr  *ParseError
		decodeErr *DecodeError
		insertErr *InsertError
		pgErr     *pgconn.PgError
		connErr   *pgconn.ConnectError
	)

	switch {
	case errors.As(err, &lookupErr):
		return classLookup
	case errors.As(err, &parseErr):
		return classParse
	case errors.As(err, &decodeErr):
		return classDecode
	case errors.As(err, &insertErr):
		if IsUniqueViolation(insertErr) {
			return classDuplicate
		}
		return classInsert
	case errors.Is(err, ErrResourceNotFound), errors.Is(err, os.ErrNotExist):
		return classResourceNotFound
	case errors.As(err, &pgErr), errors.As(err, &connErr),
		errors.Is(err, pgx.ErrTxClosed), errors.Is(err, pgx.ErrTxCommitRollback),
		pgconn.SafeToRetry(err), pgconn.Timeout(err):
		return classDatabase
	}
	return classUnknown
}

// Describe formats err for the final log line: "Message (Code: XXX). Action".
func Describe(err error) string {
	c := Classify(err)
	if c.Code == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", c.Message, c.Code, c.Action)
}
