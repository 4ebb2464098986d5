package core

// convert.go provides type conversion functions for CSV cells to PostgreSQL types.
//
// Timing sheets mark missing values two ways: an empty cell or the \N null
// marker exported by the results database. Both decode to a pgtype value with
// Valid=false, which is bound as SQL NULL.

import (
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// NullMarker is the explicit null written by database exports.
const NullMarker = `\N`

// IsNull reports whether a cleaned cell holds no value.
func IsNull(s string) bool {
	return s == "" || s == NullMarker
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or the null marker.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ParseInt4 parses a base-10 32-bit integer.
func ParseInt4(s string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

// ParseFloat8 parses a decimal number such as points or a speed.
func ParseFloat8(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ToPgInt4 wraps a present integer.
func ToPgInt4(n int32) pgtype.Int4 {
	return pgtype.Int4{Int32: n, Valid: true}
}

// ToPgFloat8 wraps a present float.
func ToPgFloat8(f float64) pgtype.Float8 {
	return pgtype.Float8{Float64: f, Valid: true}
}

// ToPgTime converts a time of day to pgtype.Time.
func ToPgTime(t time.Time) pgtype.Time {
	return pgtype.Time{Microseconds: sinceMidnight(t).Microseconds(), Valid: true}
}

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	}

	return strings.Trim(s, `"'`)
}
