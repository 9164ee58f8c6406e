// Package dialect provides a unified interface for SQL dialects. A dialect turns
// core table descriptions into creation statements; the sync orchestrator only
// talks to this interface.
package dialect

import (
	"strings"
	"sync"

	"json2sql/internal/core"
)

type Type string

const (
	MySQL Type = "mysql"
)

// Result is the outcome of compiling one table description.
type Result struct {
	// Name is the key the description was registered under.
	Name string `json:"name"`
	// Table is the full table name, prefix included.
	Table     string `json:"table"`
	Statement string `json:"statement"`
	// Normalized is the merged description with every optional attribute resolved.
	Normalized *core.Table `json:"normalized"`
}

// Generator compiles table descriptions into statements.
// Implementations hold no mutable state and are safe for concurrent use.
type Generator interface {
	Compile(name string, table *core.Table) (*Result, error)
	GenerateDropTable(table string) string
	QuoteIdentifier(name string) string
	QuoteString(value string) string
}

// Dialect creates generators bound to a table-name prefix.
type Dialect interface {
	Name() Type
	Generator(prefix string) Generator
}

var (
	registry = map[Type]func() Dialect{}
	mu       sync.RWMutex
)

// RegisterDialect creates a new registry entry for the specified dialect.
func RegisterDialect(d Type, ctor func() Dialect) {
	mu.Lock()
	defer mu.Unlock()
	registry[d] = ctor
}

// GetDialect returns the dialect for the specified type from the registry.
// An empty type selects MySQL. It returns nil for unknown types.
func GetDialect(d Type) Dialect {
	if d == "" {
		d = MySQL
	}
	mu.RLock()
	ctor, ok := registry[Type(strings.ToLower(string(d)))]
	mu.RUnlock()
	if !ok {
		return nil
	}
	return ctor()
}
