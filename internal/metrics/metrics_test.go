package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/lathist/internal/histogram"
	"github.com/wesleyorama2/lathist/internal/output"
)

func exampleReport() *output.Report {
	return &output.Report{
		Files:       2,
		Lines:       6,
		ParseErrors: 1,
		Excluded:    2,
		DurationMs:  1500,
		Buckets: []histogram.Entry{
			{Key: 5, Count: 1},
			{Key: 30, Count: 1},
			{Key: 0, Count: 2},
		},
		Total: 4,
	}
}

func TestRecord(t *testing.T) {
	m := New()
	m.Record(exampleReport())

	assert.Equal(t, float64(2), testutil.ToFloat64(m.files))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.lines))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.parseErrors))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.total))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.duration))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.buckets.WithLabelValues("0")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.buckets.WithLabelValues("30")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.buckets))
	assert.Equal(t, 0, testutil.CollectAndCount(m.quantiles))
}

func TestRecord_Percentiles(t *testing.T) {
	r := exampleReport()
	r.Percentiles = &histogram.Percentiles{Min: 2, P50: 2, P90: 31, P95: 31, P99: 31, Max: 31}

	m := New()
	m.Record(r)

	assert.Equal(t, 6, testutil.CollectAndCount(m.quantiles))
	assert.Equal(t, float64(31), testutil.ToFloat64(m.quantiles.WithLabelValues("0.99")))
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lathist.prom")

	require.NoError(t, Export(path, exampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# TYPE lathist_bucket_count gauge")
	assert.Contains(t, text, `lathist_bucket_count{bucket="0"} 2`)
	assert.Contains(t, text, `lathist_bucket_count{bucket="5"} 1`)
	assert.Contains(t, text, "lathist_values_bucketed 4")
	assert.Contains(t, text, "lathist_files_processed 2")
}

func TestExport_BadPath(t *testing.T) {
	err := Export(filepath.Join(t.TempDir(), "missing", "lathist.prom"), exampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing metrics")
}
