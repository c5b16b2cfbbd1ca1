package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/lathist/internal/histogram"
	"github.com/wesleyorama2/lathist/internal/scanner"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat converts a flag value into an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Meta identifies the run a report belongs to.
type Meta struct {
	RunID  string
	Root   string
	Window string
	Schema string
}

// Report is the rendered result of a run.
type Report struct {
	RunID       string                 `json:"runId" yaml:"runId"`
	Root        string                 `json:"root" yaml:"root"`
	Window      string                 `json:"window" yaml:"window"`
	Schema      string                 `json:"schema" yaml:"schema"`
	Files       int64                  `json:"files" yaml:"files"`
	FailedFiles int64                  `json:"failedFiles" yaml:"failedFiles"`
	Lines       int64                  `json:"lines" yaml:"lines"`
	ParseErrors int64                  `json:"parseErrors" yaml:"parseErrors"`
	Excluded    int64                  `json:"excluded" yaml:"excluded"`
	DurationMs  int64                  `json:"durationMs" yaml:"durationMs"`
	Buckets     []histogram.Entry      `json:"buckets" yaml:"buckets"`
	Total       int64                  `json:"total" yaml:"total"`
	Percentiles *histogram.Percentiles `json:"percentiles,omitempty" yaml:"percentiles,omitempty"`
	Errors      []string               `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewReport builds a Report from a finished run. Buckets are ordered by
// ascending count, ties by ascending bucket.
func NewReport(meta Meta, summary *scanner.Summary, withPercentiles bool) *Report {
	r := &Report{
		RunID:       meta.RunID,
		Root:        meta.Root,
		Window:      meta.Window,
		Schema:      meta.Schema,
		Files:       summary.Files,
		FailedFiles: summary.Failed,
		Lines:       summary.Lines,
		ParseErrors: summary.ParseErrors,
		Excluded:    summary.Result.Excluded,
		DurationMs:  summary.Duration.Milliseconds(),
		Buckets:     summary.Result.Counts.Entries(),
	}

	for _, e := range r.Buckets {
		r.Total += e.Count
	}
	if withPercentiles {
		p := summary.Result.Percentiles
		r.Percentiles = &p
	}
	for _, err := range summary.Failures() {
		r.Errors = append(r.Errors, err.Error())
	}
	return r
}

// Printer writes reports in one format.
type Printer struct {
	w       io.Writer
	format  OutputFormat
	noColor bool
	colors  *ColorScheme
}

// NewPrinter creates a Printer. Colors are only used for text output and
// only when UseColor allows them.
func NewPrinter(w io.Writer, format OutputFormat, noColor bool) *Printer {
	useColor := format == FormatText && UseColor(w, noColor)

	colors := NoColorScheme()
	if useColor {
		colors = DefaultColorScheme()
		for _, c := range []interface{ EnableColor() }{
			colors.Bucket, colors.Count, colors.Total, colors.Label,
			colors.Value, colors.Warning, colors.Separator,
		} {
			c.EnableColor()
		}
	}

	return &Printer{w: w, format: format, noColor: !useColor, colors: colors}
}

// Print renders r.
func (p *Printer) Print(r *Report) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return p.printText(r)
	}
}

// printText writes one "<bucket> - <count>" line per bucket followed by
// "total: <n>".
func (p *Printer) printText(r *Report) error {
	var sb strings.Builder
	sep := p.colors.Separator.Sprint("-")

	for _, e := range r.Buckets {
		fmt.Fprintf(&sb, "%s %s %s\n", p.colors.Bucket.Sprint(e.Key), sep, p.colors.Count.Sprint(e.Count))
	}
	fmt.Fprintf(&sb, "%s %s\n", p.colors.Total.Sprint("total:"), p.colors.Total.Sprint(r.Total))

	if r.Percentiles != nil {
		pc := r.Percentiles
		for _, row := range []struct {
			label string
			value float64
		}{
			{"min", pc.Min}, {"p50", pc.P50}, {"p90", pc.P90},
			{"p95", pc.P95}, {"p99", pc.P99}, {"max", pc.Max},
		} {
			fmt.Fprintf(&sb, "%s %s\n", p.colors.Label.Sprint(row.label+":"), p.colors.Value.Sprintf("%.6g", row.value))
		}
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, "%s %s\n", WarningIcon(p.noColor), p.colors.Warning.Sprintf("%d file(s) could not be read", len(r.Errors)))
	}

	_, err := io.WriteString(p.w, sb.String())
	return err
}
