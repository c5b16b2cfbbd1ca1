package scan

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/wesleyorama2/lathist/internal/config"
	"github.com/wesleyorama2/lathist/internal/discovery"
	"github.com/wesleyorama2/lathist/internal/histogram"
	"github.com/wesleyorama2/lathist/internal/output"
	"github.com/wesleyorama2/lathist/internal/scanner"
)

// Result contains everything known about a finished run.
type Result struct {
	// RunID identifies the run in logs and reports
	RunID string

	// Window is the time-of-day filter that was applied
	Window *discovery.Window

	// Discovery describes the files that were selected
	Discovery *discovery.Info

	// Summary holds the counters and the merged histogram
	Summary *scanner.Summary

	schema string
}

// Report builds the printable report for the run.
func (r *Result) Report(withPercentiles bool) *output.Report {
	return output.NewReport(output.Meta{
		RunID:  r.RunID,
		Root:   r.Discovery.Root,
		Window: r.Window.String(),
		Schema: r.schema,
	}, r.Summary, withPercentiles)
}

// Runner provides a high-level API for running a scan.
//
//	runner := scan.NewRunner(cfg)
//	result, err := runner.Run(ctx)
type Runner struct {
	config  *config.Config
	workers int
	runID   string
}

// NewRunner creates a runner for cfg.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg, runID: uuid.NewString()}
}

// WithWorkers overrides the pool size. Zero keeps the default.
func (r *Runner) WithWorkers(n int) *Runner {
	r.workers = n
	return r
}

// RunID returns the identifier attached to this run's logs.
func (r *Runner) RunID() string {
	return r.runID
}

// Run validates the configuration, discovers the files and scans them.
// Unreadable files abort the run unless the configuration asks to
// continue, in which case they are reported in Result.Summary.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	cfg := r.config
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	window, _ := cfg.Window()
	layout, _ := cfg.Layout()
	policy, _ := cfg.Policy()
	lineParser, _ := cfg.Parser()

	logger := log.WithField("run", r.runID)
	logger.WithFields(log.Fields{
		"root":    cfg.Root,
		"pattern": cfg.Pattern,
		"window":  window.String(),
	}).Info("-- Checking files to process --")

	info, err := discovery.Discover(cfg.Root, discovery.Options{
		Pattern:  cfg.Pattern,
		Exclude:  cfg.Exclude,
		Window:   window,
		MaxFiles: cfg.Limit,
	})
	if err != nil {
		return nil, err
	}

	s := scanner.New(scanner.Options{Parser: lineParser, Workers: r.workers, Policy: policy})
	logger.WithFields(log.Fields{
		"bytes":          info.TotalSize,
		"excluded":       info.Excluded,
		"outside_window": info.OutsideWindow,
		"workers":        s.Workers(),
	}).Infof("Starting to process %d files", len(info.Files))

	summary, err := s.Run(ctx, info.Files, histogram.NewGlobal(layout))
	if err != nil {
		return nil, errors.Wrap(err, "scan aborted")
	}

	for _, failure := range summary.Failures() {
		logger.Warn(failure.Error())
	}
	logger.WithFields(log.Fields{
		"files":        summary.Files,
		"lines":        summary.Lines,
		"parse_errors": summary.ParseErrors,
		"duration":     summary.Duration,
	}).Info("Finished processing files")

	return &Result{
		RunID:     r.runID,
		Window:    window,
		Discovery: info,
		Summary:   summary,
		schema:    cfg.Schema,
	}, nil
}
