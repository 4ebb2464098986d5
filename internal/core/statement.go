package core

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/JonMunkholm/f1load/internal/schema"
)

// Statement is a parameter-bound insert against one destination table.
// Values are never spliced into the SQL text.
type Statement struct {
	Kind  Kind
	Table schema.Table
	Args  []any
}

// SQL renders the insert with quoted identifiers and $n placeholders.
func (s Statement) SQL() string {
	cols := make([]string, len(s.Table.Columns))
	params := make([]string, len(s.Table.Columns))
	for i, c := range s.Table.Columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{s.Table.Name}.Sanitize(),
		strings.Join(cols, ", "),
		strings.Join(params, ", "),
	)
}

// BuildInsert maps one decoded record of the given kind to an insert
// statement for the race. Column order comes from the kind's table.
func BuildInsert(kind Kind, raceID int32, record any) (Statement, error) {
	def, ok := Get(kind)
	if !ok {
		return Statement{}, errors.Errorf("unknown entity: %s", kind)
	}
	return buildInsert(def, raceID, record)
}

func buildInsert(def EntityDefinition, raceID int32, record any) (Statement, error) {
	values, err := def.Values(record)
	if err != nil {
		return Statement{}, errors.Wrapf(err, "build %s insert", def.Kind)
	}

	args := make([]any, 0, len(values)+1)
	args = append(args, raceID)
	args = append(args, values...)

	if len(args) != len(def.Table.Columns) {
		return Statement{}, errors.Errorf("build %s insert: %d values for %d columns of %s",
			def.Kind, len(args), len(def.Table.Columns), def.Table.Name)
	}

	return Statement{Kind: def.Kind, Table: def.Table, Args: args}, nil
}
