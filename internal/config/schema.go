// Package config loads and validates lathist run configuration.
package config

import (
	"github.com/wesleyorama2/lathist/internal/discovery"
	"github.com/wesleyorama2/lathist/internal/histogram"
	"github.com/wesleyorama2/lathist/internal/output"
	"github.com/wesleyorama2/lathist/internal/parser"
	"github.com/wesleyorama2/lathist/internal/scanner"
)

// Config is the complete description of a run. It can be loaded from a
// YAML or JSON file and overridden by command line flags.
type Config struct {
	// Root is the directory to scan.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// Pattern is a doublestar glob relative to Root (default "**/*").
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Exclude lists globs for files to skip.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// InitTime and EndTime bound the [init, end) time-of-day window applied
	// to timestamps in file names, as HH:MM or HH:MM:SS.
	InitTime string `json:"initTime,omitempty" yaml:"initTime,omitempty"`
	EndTime  string `json:"endTime,omitempty" yaml:"endTime,omitempty"`

	// Limit caps the number of files processed (0 = unlimited).
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`

	// Schema selects the line parser (v1 or json).
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`

	// Field overrides where the parser finds the latency value.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`

	// OnError is the unreadable file policy: abort or continue.
	OnError string `json:"onError,omitempty" yaml:"onError,omitempty"`

	// Output is the report format: text, json or yaml.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Buckets describes the histogram layout.
	Buckets BucketConfig `json:"buckets,omitempty" yaml:"buckets,omitempty"`

	// Summary adds percentiles to the report.
	Summary bool `json:"summary,omitempty" yaml:"summary,omitempty"`

	// MetricsFile, when set, receives a Prometheus textfile with run metrics.
	MetricsFile string `json:"metricsFile,omitempty" yaml:"metricsFile,omitempty"`
}

// BucketConfig describes fixed-width buckets from 0 to Limit with an open
// bucket above Limit.
type BucketConfig struct {
	Width int `json:"width,omitempty" yaml:"width,omitempty"`
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Pattern: discovery.DefaultPattern,
		Schema:  parser.SchemaV1,
		OnError: string(scanner.PolicyAbort),
		Output:  string(output.FormatText),
		Buckets: BucketConfig{Width: 5, Limit: 30},
	}
}

// Window builds the time-of-day window.
func (c *Config) Window() (*discovery.Window, error) {
	return discovery.NewWindow(c.InitTime, c.EndTime)
}

// Layout builds the bucket layout.
func (c *Config) Layout() (*histogram.Layout, error) {
	return histogram.LinearLayout(c.Buckets.Width, c.Buckets.Limit)
}

// Policy returns the unreadable file policy.
func (c *Config) Policy() (scanner.ErrorPolicy, error) {
	return scanner.ParseErrorPolicy(c.OnError)
}

// Format returns the report format.
func (c *Config) Format() (output.OutputFormat, error) {
	return output.ParseFormat(c.Output)
}

// Parser builds the line parser.
func (c *Config) Parser() (parser.Parser, error) {
	return parser.For(c.Schema, parser.Options{Field: c.Field})
}

// documentSchema checks the shape of a configuration file before it is
// decoded.
const documentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"root":        { "type": "string" },
		"pattern":     { "type": "string", "minLength": 1 },
		"exclude":     { "type": "array", "items": { "type": "string" } },
		"initTime":    { "type": "string", "pattern": "^\\d{1,2}:\\d{2}(:\\d{2})?$" },
		"endTime":     { "type": "string", "pattern": "^\\d{1,2}:\\d{2}(:\\d{2})?$" },
		"limit":       { "type": "integer", "minimum": 0 },
		"schema":      { "type": "string" },
		"field":       { "type": "string" },
		"onError":     { "enum": ["abort", "continue"] },
		"output":      { "enum": ["text", "json", "yaml"] },
		"summary":     { "type": "boolean" },
		"metricsFile": { "type": "string" },
		"buckets": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"width": { "type": "integer", "minimum": 1, "maximum": 1000000 },
				"limit": { "type": "integer", "minimum": 1, "maximum": 1000000 }
			}
		}
	}
}`
