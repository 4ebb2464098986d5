package core

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/f1load/internal/dbtest"
)

func newLapStore() *dbtest.Store {
	return dbtest.New().UniqueKey(testLapTable.Name, "raceId", "driverId", "lap")
}

func lapStatement(t *testing.T, driver, lap int32) Statement {
	t.Helper()
	stmt, err := BuildInsert(kindTestLap, 42, testLap{DriverID: driver, Lap: lap})
	require.NoError(t, err)
	return stmt
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(&InsertError{Table: "t", Err: &pgconn.PgError{Code: "23505"}}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("duplicate key")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestExecuteTolerantSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newLapStore()
	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	res, err := Execute(ctx, tx, lapStatement(t, 1, 1), true)
	require.NoError(t, err)
	assert.Equal(t, Inserted, res)

	res, err = Execute(ctx, tx, lapStatement(t, 1, 1), true)
	require.NoError(t, err)
	assert.Equal(t, Skipped, res)

	// The transaction is still usable after a skipped duplicate.
	res, err = Execute(ctx, tx, lapStatement(t, 1, 2), true)
	require.NoError(t, err)
	assert.Equal(t, Inserted, res)

	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, 2, store.Count(testLapTable.Name))
}

func TestExecuteStrictFailsOnDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newLapStore()
	tx, _ := store.Begin(ctx)

	_, err := Execute(ctx, tx, lapStatement(t, 1, 1), false)
	require.NoError(t, err)

	_, err = Execute(ctx, tx, lapStatement(t, 1, 1), false)
	var ie *InsertError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, testLapTable.Name, ie.Table)
	assert.True(t, IsUniqueViolation(err))
}

func TestExecuteTolerantPropagatesOtherErrors(t *testing.T) {
	ctx := context.Background()
	notNull := &pgconn.PgError{Code: "23502", Message: "null value in column \"lap\""}
	store := newLapStore().FailInserts(testLapTable.Name, notNull)
	tx, _ := store.Begin(ctx)

	_, err := Execute(ctx, tx, lapStatement(t, 1, 1), true)

	var ie *InsertError
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, notNull)
	assert.False(t, IsUniqueViolation(err))
}

func TestExecResultString(t *testing.T) {
	assert.Equal(t, "inserted", Inserted.String())
	assert.Equal(t, "skipped", Skipped.String())
}
