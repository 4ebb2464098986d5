package tables

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// NormalizeEntrant trims an entrant name and collapses inner runs of
// whitespace so it matches the constructor name stored in the database.
func NormalizeEntrant(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ClassifiedPosition converts a sprint sheet position to a finishing
// position. Non-numeric text ("DNF", "DSQ", "NC") is not a classification
// and maps to absent.
func ClassifiedPosition(s string) pgtype.Int4 {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil || n == 0 {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(n), Valid: true}
}
