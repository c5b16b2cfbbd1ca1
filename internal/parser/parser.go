// Package parser turns raw log lines into latency records.
//
// Line formats are selected by a schema name (the --schema flag). Each
// schema is registered once with a Factory, so new formats can be added
// without touching the aggregation code.
package parser

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Record is one parsed log line.
type Record struct {
	// ProcessingTime is the latency value the histogram is built from, in
	// the log's own unit (seconds for ALB logs).
	ProcessingTime float64
}

// Parser parses a single line. Implementations must be safe for
// concurrent use because one Parser is shared by all workers.
type Parser interface {
	Parse(line string) (Record, error)
}

// ParseError reports a line that could not be turned into a Record.
// Callers skip such lines and count them; a ParseError never aborts a run.
type ParseError struct {
	Schema string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error (%s): %s: %v", e.Schema, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Schema, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options carries schema-specific settings.
type Options struct {
	// Field selects the value for schemas that support it: a zero-based
	// token index for v1, a JSONPath expression for json.
	Field string
}

// Factory builds a Parser for a schema.
type Factory func(opts Options) (Parser, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a schema available to For. Registering a name twice
// replaces the earlier factory.
func Register(schema string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(schema)] = factory
}

// For returns the parser registered for schema.
func For(schema string, opts Options) (Parser, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(schema)]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown log schema %q (available: %s)", schema, strings.Join(Schemas(), ", "))
	}
	return factory(opts)
}

// Schemas lists the registered schema names in sorted order.
func Schemas() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(SchemaV1, newFieldParser)
	Register(SchemaJSON, newJSONParser)
}
