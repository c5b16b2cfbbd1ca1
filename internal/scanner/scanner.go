// Package scanner runs the scan-parse-aggregate pipeline over a list of
// files using a bounded pool of goroutines.
package scanner

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wesleyorama2/lathist/internal/histogram"
	"github.com/wesleyorama2/lathist/internal/parser"
)

// maxParseErrorLogs caps the per-file debug lines for unparseable input.
const maxParseErrorLogs = 5

// DefaultWorkers is the pool size used when Options.Workers is zero.
func DefaultWorkers() int {
	return 2 * runtime.NumCPU()
}

// Options configures a Scanner.
type Options struct {
	// Parser turns lines into records. Required.
	Parser parser.Parser

	// Workers is the fixed pool size (default: 2 x logical CPUs).
	Workers int

	// Policy decides how unreadable files affect the run (default: abort).
	Policy ErrorPolicy
}

// Scanner dispatches one task per file onto a fixed-size worker pool.
type Scanner struct {
	parser  parser.Parser
	workers int
	policy  ErrorPolicy
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers()
	}
	if opts.Policy == "" {
		opts.Policy = PolicyAbort
	}
	return &Scanner{
		parser:  opts.Parser,
		workers: opts.Workers,
		policy:  opts.Policy,
	}
}

// Workers returns the pool size.
func (s *Scanner) Workers() int {
	return s.workers
}

// Summary describes a finished run.
type Summary struct {
	Files       int64 // Files scanned and merged
	Failed      int64 // Files skipped under PolicyContinue
	Lines       int64 // Non-blank lines read
	ParseErrors int64 // Lines skipped because they could not be parsed
	Bytes       int64 // Uncompressed bytes read
	Duration    time.Duration

	// Result is the global histogram after every task finished.
	Result *histogram.Result

	failures *multierror.Error
}

// Err returns every FileError collected under PolicyContinue, or nil.
func (s *Summary) Err() error {
	return s.failures.ErrorOrNil()
}

// Failures returns the collected FileErrors.
func (s *Summary) Failures() []error {
	if s.failures == nil {
		return nil
	}
	return s.failures.Errors
}

type fileStats struct {
	lines       int64
	parseErrors int64
	bytes       int64
	compression Compression
}

// run holds the per-Run counters shared by the tasks.
type run struct {
	files       atomic.Int64
	lines       atomic.Int64
	parseErrors atomic.Int64
	bytes       atomic.Int64

	failuresMu sync.Mutex
	failures   *multierror.Error
}

// Run scans every path exactly once and merges the per-file histograms
// into global. It returns only after every dispatched task has finished.
//
// Under PolicyAbort the first FileError stops further dispatch and is
// returned; the summary is nil. Under PolicyContinue failures are
// collected into Summary.Err and the returned error is nil unless ctx was
// cancelled.
func (s *Scanner) Run(ctx context.Context, paths []string, global *histogram.Global) (*Summary, error) {
	start := time.Now()
	state := &run{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range paths {
		// Go blocks while all workers are busy.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// A task queued behind a failure is not started.
			if gctx.Err() != nil {
				return nil
			}
			return s.runTask(path, global, state)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Files:       state.files.Load(),
		Lines:       state.lines.Load(),
		ParseErrors: state.parseErrors.Load(),
		Bytes:       state.bytes.Load(),
		Duration:    time.Since(start),
		Result:      global.Snapshot(),
		failures:    state.failures,
	}
	if state.failures != nil {
		summary.Failed = int64(len(state.failures.Errors))
	}
	return summary, nil
}

func (s *Scanner) runTask(path string, global *histogram.Global, state *run) error {
	local := global.NewLocal()

	stats, err := s.scanFile(path, local)
	if err != nil {
		ferr := &FileError{Path: path, Err: err}
		if s.policy == PolicyAbort {
			return ferr
		}
		log.WithError(err).WithField("file", path).Warn("skipping unreadable file")
		state.failuresMu.Lock()
		state.failures = multierror.Append(state.failures, ferr)
		state.failuresMu.Unlock()
		return nil
	}

	global.Merge(local)

	state.files.Add(1)
	state.lines.Add(stats.lines)
	state.parseErrors.Add(stats.parseErrors)
	state.bytes.Add(stats.bytes)

	log.WithFields(log.Fields{
		"file":         path,
		"lines":        stats.lines,
		"counted":      local.Total(),
		"parse_errors": stats.parseErrors,
		"compression":  stats.compression,
	}).Debug("file scanned")
	return nil
}

// scanFile reads path fully and records every line, in file order, into
// local.
func (s *Scanner) scanFile(path string, local *histogram.Local) (fileStats, error) {
	data, compression, err := readFile(path)
	if err != nil {
		return fileStats{}, err
	}

	stats := fileStats{bytes: int64(len(data)), compression: compression}
	text := string(data)
	lineNo := 0
	for len(text) > 0 {
		var line string
		line, text, _ = strings.Cut(text, "\n")
		lineNo++

		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.lines++

		rec, err := s.parser.Parse(line)
		if err != nil {
			stats.parseErrors++
			if stats.parseErrors <= maxParseErrorLogs {
				log.WithError(err).WithFields(log.Fields{"file": path, "line": lineNo}).Debug("skipping unparseable line")
			}
			continue
		}
		local.Record(rec.ProcessingTime)
	}
	return stats, nil
}
