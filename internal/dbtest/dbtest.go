// Package dbtest is an in-memory stand-in for the slice of PostgreSQL a load
// touches, so transactional behavior can be tested without a server.
//
// It understands exactly the statements the loader sends: single-row
// parameter-bound inserts, savepoints, and equality lookups of one column.
// Unique keys are declared per table and reported as SQLSTATE 23505. A
// failed statement aborts the transaction until it is rolled back to a
// savepoint, and committing an aborted transaction rolls it back, as
// PostgreSQL does.
package dbtest

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// Row is one stored row keyed by column name.
type Row map[string]any

var (
	insertRE     = regexp.MustCompile(`^INSERT INTO "([^"]+)" \(([^)]*)\) VALUES \(([^)]*)\)$`)
	selectRE     = regexp.MustCompile(`^SELECT "([^"]+)" FROM (\w+) WHERE (.+)$`)
	conditionRE  = regexp.MustCompile(`^(\w+) = \$(\d+)$`)
	savepointRE  = regexp.MustCompile(`^SAVEPOINT (\w+)$`)
	rollbackToRE = regexp.MustCompile(`^ROLLBACK TO SAVEPOINT (\w+)$`)
	releaseRE    = regexp.MustCompile(`^RELEASE SAVEPOINT (\w+)$`)
)

// Store holds committed rows. It is safe for use by one transaction at a time.
type Store struct {
	mu        sync.Mutex
	tables    map[string][]Row
	keys      map[string][]string
	faults    map[string]error
	commits   int
	rollbacks int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		tables: make(map[string][]Row),
		keys:   make(map[string][]string),
		faults: make(map[string]error),
	}
}

// UniqueKey declares the columns that identify a row of table.
func (s *Store) UniqueKey(table string, columns ...string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[table] = columns
	return s
}

// Seed stores committed rows directly, e.g. reference data for lookups.
func (s *Store) Seed(table string, rows ...Row) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.tables[table] = append(s.tables[table], cloneRow(r))
	}
	return s
}

// FailInserts makes every insert into table fail with err.
func (s *Store) FailInserts(table string, err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[table] = err
	return s
}

// Rows returns a copy of the committed rows of table in insertion order.
func (s *Store) Rows(table string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, 0, len(s.tables[table]))
	for _, r := range s.tables[table] {
		out = append(out, cloneRow(r))
	}
	return out
}

// Count returns the number of committed rows in table.
func (s *Store) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[table])
}

// Commits returns the number of transactions committed.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Rollbacks returns the number of transactions rolled back, including
// aborted transactions whose commit turned into a rollback.
func (s *Store) Rollbacks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbacks
}

// Begin starts a transaction.
func (s *Store) Begin(context.Context) (pgx.Tx, error) {
	return &Tx{store: s}, nil
}

type pendingRow struct {
	table string
	row   Row
}

type savepoint struct {
	name string
	mark int
}

// Tx is a transaction against a Store. Methods the loader never calls are
// left to the embedded nil pgx.Tx and panic if used.
type Tx struct {
	pgx.Tx

	store      *Store
	pending    []pendingRow
	savepoints []savepoint
	aborted    bool
	done       bool
}

func (tx *Tx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx.done {
		return pgconn.CommandTag{}, pgx.ErrTxClosed
	}
	sql = strings.TrimSpace(sql)

	if m := rollbackToRE.FindStringSubmatch(sql); m != nil {
		return tx.rollbackTo(m[1])
	}
	if tx.aborted {
		return pgconn.CommandTag{}, abortedError()
	}

	if m := savepointRE.FindStringSubmatch(sql); m != nil {
		tx.savepoints = append(tx.savepoints, savepoint{name: m[1], mark: len(tx.pending)})
		return pgconn.NewCommandTag("SAVEPOINT"), nil
	}
	if m := releaseRE.FindStringSubmatch(sql); m != nil {
		i := tx.findSavepoint(m[1])
		if i < 0 {
			return tx.fail(noSavepointError(m[1]))
		}
		tx.savepoints = tx.savepoints[:i]
		return pgconn.NewCommandTag("RELEASE"), nil
	}
	if m := insertRE.FindStringSubmatch(sql); m != nil {
		return tx.insert(m[1], splitIdentifiers(m[2]), args)
	}

	return tx.fail(&pgconn.PgError{Severity: "ERROR", Code: "42601", Message: "dbtest: unsupported statement: " + sql})
}

func (tx *Tx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if tx.done {
		return errRow{err: pgx.ErrTxClosed}
	}
	if tx.aborted {
		return errRow{err: abortedError()}
	}

	m := selectRE.FindStringSubmatch(strings.TrimSpace(sql))
	if m == nil {
		_, err := tx.fail(&pgconn.PgError{Severity: "ERROR", Code: "42601", Message: "dbtest: unsupported query: " + sql})
		return errRow{err: err}
	}
	column, table := m[1], m[2]

	type cond struct {
		column string
		value  any
	}
	var conds []cond
	for _, part := range strings.Split(m[3], " AND ") {
		cm := conditionRE.FindStringSubmatch(strings.TrimSpace(part))
		if cm == nil {
			return errRow{err: errors.Errorf("dbtest: unsupported condition %q", part)}
		}
		n, _ := strconv.Atoi(cm[2])
		if n < 1 || n > len(args) {
			return errRow{err: errors.Errorf("dbtest: no argument for $%d", n)}
		}
		conds = append(conds, cond{column: cm[1], value: args[n-1]})
	}

	for _, r := range tx.visibleRows(table) {
		match := true
		for _, c := range conds {
			if !sameValue(r[c.column], c.value) {
				match = false
				break
			}
		}
		if match {
			return valueRow{value: r[column]}
		}
	}
	return errRow{err: pgx.ErrNoRows}
}

func (tx *Tx) Commit(context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.aborted {
		s.rollbacks++
		return pgx.ErrTxCommitRollback
	}
	for _, p := range tx.pending {
		s.tables[p.table] = append(s.tables[p.table], p.row)
	}
	s.commits++
	return nil
}

func (tx *Tx) Rollback(context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true

	tx.store.mu.Lock()
	tx.store.rollbacks++
	tx.store.mu.Unlock()
	return nil
}

func (tx *Tx) insert(table string, columns []string, args []any) (pgconn.CommandTag, error) {
	if len(args) != len(columns) {
		return tx.fail(&pgconn.PgError{
			Severity: "ERROR",
			Code:     "08P01",
			Message:  fmt.Sprintf("bind message supplies %d parameters, but statement requires %d", len(args), len(columns)),
		})
	}

	tx.store.mu.Lock()
	fault := tx.store.faults[table]
	key := tx.store.keys[table]
	tx.store.mu.Unlock()

	if fault != nil {
		return tx.fail(fault)
	}

	row := make(Row, len(columns))
	for i, c := range columns {
		row[c] = args[i]
	}

	if len(key) > 0 {
		want := keyOf(row, key)
		for _, r := range tx.visibleRows(table) {
			if keyOf(r, key) == want {
				constraint := table + "_pkey"
				return tx.fail(&pgconn.PgError{
					Severity:       "ERROR",
					Code:           "23505",
					Message:        fmt.Sprintf("duplicate key value violates unique constraint %q", constraint),
					TableName:      table,
					ConstraintName: constraint,
				})
			}
		}
	}

	tx.pending = append(tx.pending, pendingRow{table: table, row: row})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *Tx) rollbackTo(name string) (pgconn.CommandTag, error) {
	i := tx.findSavepoint(name)
	if i < 0 {
		return tx.fail(noSavepointError(name))
	}
	tx.pending = tx.pending[:tx.savepoints[i].mark]
	tx.savepoints = tx.savepoints[:i+1]
	tx.aborted = false
	return pgconn.NewCommandTag("ROLLBACK"), nil
}

func (tx *Tx) findSavepoint(name string) int {
	for i := len(tx.savepoints) - 1; i >= 0; i-- {
		if tx.savepoints[i].name == name {
			return i
		}
	}
	return -1
}

// fail marks the transaction aborted and returns err.
func (tx *Tx) fail(err error) (pgconn.CommandTag, error) {
	tx.aborted = true
	return pgconn.CommandTag{}, err
}

// visibleRows returns committed rows followed by this transaction's pending rows.
func (tx *Tx) visibleRows(table string) []Row {
	tx.store.mu.Lock()
	rows := append([]Row(nil), tx.store.tables[table]...)
	tx.store.mu.Unlock()

	for _, p := range tx.pending {
		if p.table == table {
			rows = append(rows, p.row)
		}
	}
	return rows
}

func abortedError() error {
	return &pgconn.PgError{
		Severity: "ERROR",
		Code:     "25P02",
		Message:  "current transaction is aborted, commands ignored until end of transaction block",
	}
}

func noSavepointError(name string) error {
	return &pgconn.PgError{Severity: "ERROR", Code: "3B001", Message: fmt.Sprintf("savepoint %q does not exist", name)}
}

func splitIdentifiers(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.Trim(strings.TrimSpace(p), `"`))
	}
	return out
}

func keyOf(r Row, columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprint(r[c])
	}
	return strings.Join(parts, "\x00")
}

// sameValue compares loosely so that an int32 argument matches a seeded int.
func sameValue(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type valueRow struct{ value any }

func (r valueRow) Scan(dest ...any) error {
	if len(dest) != 1 {
		return errors.Errorf("dbtest: scan of one column into %d destinations", len(dest))
	}
	return assign(dest[0], r.value)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func assign(dest, v any) error {
	switch d := dest.(type) {
	case *string:
		s, ok := v.(string)
		if !ok {
			return errors.Errorf("dbtest: cannot scan %T into *string", v)
		}
		*d = s
		return nil
	case *int32:
		n, err := toInt64(v)
		*d = int32(n)
		return err
	case *int64:
		n, err := toInt64(v)
		*d = n
		return err
	case *int:
		n, err := toInt64(v)
		*d = int(n)
		return err
	}
	return errors.Errorf("dbtest: unsupported scan destination %T", dest)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return 0, errors.Errorf("dbtest: cannot scan %T into an integer", v)
}
