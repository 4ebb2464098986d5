// Package tables registers every entity shape with the core registry.
// Import this package to ensure all entities are registered.
//
// Each file registers one group of entities from init(). A registration
// binds the source file layout, the decoder, the destination table and the
// insert values for one kind.
package tables

import (
	"github.com/pkg/errors"
)

// record asserts the concrete record type handed back to a ValuesFunc.
func record[T any](v any) (T, error) {
	rec, ok := v.(T)
	if !ok {
		var zero T
		return zero, errors.Errorf("unexpected record type %T, want %T", v, zero)
	}
	return rec, nil
}
