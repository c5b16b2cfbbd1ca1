package histogram

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Values are recorded in the HDR histogram in millionths of the log's unit.
// For ALB logs, whose unit is seconds, that is microseconds.
const (
	hdrScale   = 1e6
	hdrMin     = 1
	hdrMax     = 1 << 62 // about 4.6e12 log units; only +Inf reaches it
	hdrSigFigs = 3
)

func newHDR() *hdrhistogram.Histogram {
	return hdrhistogram.New(hdrMin, hdrMax, hdrSigFigs)
}

// Local accumulates the buckets of a single file. It is owned by exactly
// one goroutine and is not safe for concurrent use.
type Local struct {
	layout *Layout
	counts Histogram
	hdr    *hdrhistogram.Histogram

	// Values that matched no bucket rule.
	excluded int64
}

// NewLocal creates an empty Local for layout.
func NewLocal(layout *Layout) *Local {
	return &Local{
		layout: layout,
		counts: make(Histogram),
		hdr:    newHDR(),
	}
}

// Record buckets v and counts it. Values not covered by the layout are
// ignored apart from the excluded counter.
func (l *Local) Record(v float64) {
	key, ok := l.layout.Bucket(v)
	if !ok {
		l.excluded++
		return
	}
	l.counts.Add(key, 1)

	// Clamp before converting so +Inf lands in the top HDR bucket. hdrMax
	// is exact as a float64, so the conversion cannot overflow.
	scaled := math.Min(math.Max(v*hdrScale, hdrMin), hdrMax)
	_ = l.hdr.RecordValue(int64(scaled))
}

// Counts returns the bucket counts recorded so far. The returned map must
// not be modified.
func (l *Local) Counts() Histogram {
	return l.counts
}

// Total returns the number of values that landed in a bucket.
func (l *Local) Total() int64 {
	return l.counts.Total()
}

// Excluded returns the number of values that landed in no bucket.
func (l *Local) Excluded() int64 {
	return l.excluded
}
