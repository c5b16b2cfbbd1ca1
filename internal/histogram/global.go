package histogram

import (
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Global is the run-wide histogram shared by all workers.
//
// # Thread Safety
//
// Merge may be called from any number of goroutines. Each call holds the
// lock for the duration of one Local's buckets, never for a file's lines.
type Global struct {
	layout *Layout

	mu       sync.Mutex
	counts   Histogram
	hdr      *hdrhistogram.Histogram
	excluded int64
	merges   int64
}

// NewGlobal creates an empty Global for layout.
func NewGlobal(layout *Layout) *Global {
	return &Global{
		layout: layout,
		counts: make(Histogram),
		hdr:    newHDR(),
	}
}

// NewLocal returns a Local using the same layout as g.
func (g *Global) NewLocal() *Local {
	return NewLocal(g.layout)
}

// Layout returns the bucket layout shared by g and its Locals.
func (g *Global) Layout() *Layout {
	return g.layout
}

// Merge adds the counts of local into g. A Local must be merged at most
// once; merging it again counts its values again.
func (g *Global) Merge(local *Local) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.counts.AddAll(local.counts)
	g.hdr.Merge(local.hdr)
	g.excluded += local.excluded
	g.merges++
}

// Percentiles summarizes the distribution of covered values in the log's
// own unit.
type Percentiles struct {
	Min  float64 `json:"min" yaml:"min"`
	P50  float64 `json:"p50" yaml:"p50"`
	P90  float64 `json:"p90" yaml:"p90"`
	P95  float64 `json:"p95" yaml:"p95"`
	P99  float64 `json:"p99" yaml:"p99"`
	Max  float64 `json:"max" yaml:"max"`
	Mean float64 `json:"mean" yaml:"mean"`
}

// Result is a point-in-time copy of a Global.
type Result struct {
	Counts      Histogram
	Total       int64
	Excluded    int64
	Merges      int64
	Percentiles Percentiles
}

// Snapshot copies the current state of g. Call it after every worker has
// finished to read the final result.
func (g *Global) Snapshot() *Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	return &Result{
		Counts:   g.counts.Clone(),
		Total:    g.counts.Total(),
		Excluded: g.excluded,
		Merges:   g.merges,
		Percentiles: Percentiles{
			Min:  unscale(g.hdr.Min()),
			P50:  unscale(g.hdr.ValueAtQuantile(50)),
			P90:  unscale(g.hdr.ValueAtQuantile(90)),
			P95:  unscale(g.hdr.ValueAtQuantile(95)),
			P99:  unscale(g.hdr.ValueAtQuantile(99)),
			Max:  unscale(g.hdr.Max()),
			Mean: g.hdr.Mean() / hdrScale,
		},
	}
}

func unscale(v int64) float64 {
	return float64(v) / hdrScale
}
