package core

// validation.go checks a file's header row against its declared columns.
//
// Required columns must all be present. Optional columns may be missing,
// in which case every row decodes them as absent. Older header spellings
// listed as aliases are folded onto the current name.

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/f1load/internal/schema"
)

// MissingColumnsError lists required columns absent from a header row.
type MissingColumnsError struct {
	File    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.File, strings.Join(e.Columns, ", "))
}

// ValidateHeaders validates that all required columns exist in the CSV header.
// Returns a mapping from column name to index.
func ValidateHeaders(header []string, file schema.File) (HeaderIndex, error) {
	idx := MakeHeaderIndex(header)
	var missing []string

	for _, field := range file.Fields {
		key := strings.ToLower(field.Name)
		if _, ok := idx[key]; ok {
			continue
		}

		for _, alias := range field.Aliases {
			if pos, ok := idx[strings.ToLower(alias)]; ok {
				idx[key] = pos
				break
			}
		}

		if _, ok := idx[key]; !ok && !field.Optional {
			missing = append(missing, field.Name)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{File: file.Name, Columns: missing}
	}

	return idx, nil
}
