package core

import (
	"fmt"
	"sync"
)

var (
	registry   = make(map[Kind]EntityDefinition)
	registryMu sync.RWMutex
)

// Register adds an entity definition to the registry.
// Panics if the definition is incomplete or its kind is already registered.
func Register(def EntityDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Kind == "" || def.Decode == nil || def.Values == nil {
		panic(fmt.Sprintf("incomplete entity definition: %q", def.Kind))
	}
	if len(def.Table.Columns) == 0 || def.Table.Name == "" {
		panic(fmt.Sprintf("entity %s has no destination table", def.Kind))
	}
	if _, exists := registry[def.Kind]; exists {
		panic(fmt.Sprintf("entity already registered: %s", def.Kind))
	}

	registry[def.Kind] = def
}

// Get returns an entity definition by kind.
// Returns false if not found.
func Get(kind Kind) (EntityDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[kind]
	return def, ok
}

// MustGet returns an entity definition or panics. Use it only for kinds
// whose registration is guaranteed by an import.
func MustGet(kind Kind) EntityDefinition {
	def, ok := Get(kind)
	if !ok {
		panic(fmt.Sprintf("entity not registered: %s", kind))
	}
	return def
}

// Count returns the number of registered entities.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
