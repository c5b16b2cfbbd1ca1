package jsonpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Path is a JSONPath expression translated once into gjson syntax so it can
// be evaluated against many documents.
type Path struct {
	expr  string
	gpath string
}

// Compile translates a JSONPath expression such as $.timing.target or
// $['timing']['target'] into a reusable Path.
func Compile(expr string) (Path, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Path{}, fmt.Errorf("empty JSONPath expression")
	}
	if !strings.HasPrefix(expr, "$") {
		return Path{}, fmt.Errorf("JSONPath expression must start with $: %s", expr)
	}
	return Path{expr: expr, gpath: convertToGjsonPath(expr)}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) Path {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the original JSONPath expression.
func (p Path) String() string {
	return p.expr
}

// Lookup returns the raw gjson result for p in doc.
func (p Path) Lookup(doc string) gjson.Result {
	return gjson.Get(doc, p.gpath)
}

// Float extracts a number from doc. Numbers encoded as JSON strings, which
// some log shippers emit, are accepted too.
func (p Path) Float(doc string) (float64, error) {
	if doc == "" {
		return 0, fmt.Errorf("empty JSON document")
	}
	if !gjson.Valid(doc) {
		return 0, fmt.Errorf("invalid JSON document")
	}

	result := p.Lookup(doc)
	if !result.Exists() {
		return 0, fmt.Errorf("path not found: %s", p.expr)
	}

	switch result.Type {
	case gjson.Number:
		return result.Num, nil
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(result.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("value at %s is not numeric: %q", p.expr, result.Str)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("value at %s is %s, not a number", p.expr, result.Type)
	}
}

// convertToGjsonPath converts a JSONPath expression to a gjson path format
func convertToGjsonPath(path string) string {
	if path == "$" {
		return "@this"
	}

	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return "@this"
	}
	path = strings.TrimPrefix(path, ".")

	// Quoted bracket notation: $['name'] and $["name"]
	path = strings.NewReplacer("['", ".", "']", "", "[\"", ".", "\"]", "").Replace(path)
	path = strings.TrimPrefix(path, ".")

	// Index notation: [0] -> .0
	path = strings.NewReplacer("[", ".", "]", "").Replace(path)
	return strings.TrimPrefix(path, ".")
}
