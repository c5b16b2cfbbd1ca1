// Package metrics exports the outcome of a run as a Prometheus textfile,
// suitable for the node_exporter textfile collector.
package metrics

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wesleyorama2/lathist/internal/output"
)

const MetricsPrefix = "lathist_"

type Metrics struct {
	registry *prometheus.Registry

	files       prometheus.Gauge
	failedFiles prometheus.Gauge
	lines       prometheus.Gauge
	parseErrors prometheus.Gauge
	excluded    prometheus.Gauge
	total       prometheus.Gauge
	duration    prometheus.Gauge
	buckets     *prometheus.GaugeVec
	quantiles   *prometheus.GaugeVec
}

// New creates the metric set on its own registry so that the textfile
// holds nothing but run metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		files: factory.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "files_processed",
			Help: "Number of files scanned in the last run",
		}),
		failedFiles: factory.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "files_failed",
			Help: "Number of files that could not be read in the last run",
		}),
		lines: factory.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "lines_processed",
			Help: "Number of non-blank lines read in the last run",
		}),
		parseErrors: factory.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "parse_errors",
			Help: "Number of lines that could not be parsed in the last run",
		}),
		excluded: factory.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "values_excluded",
			Help: "Number of parsed values that fell outside every bucket",
		}),
		total: factory.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "values_bucketed",
			Help: "Number of values counted in the histogram",
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "run_duration_seconds",
			Help: "Wall clock time of the last run",
		}),
		buckets: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricsPrefix + "bucket_count",
			Help: "Number of values per latency bucket, keyed by bucket lower bound in seconds",
		}, []string{"bucket"}),
		quantiles: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricsPrefix + "latency_seconds",
			Help: "Latency quantiles of the bucketed values",
		}, []string{"quantile"}),
	}
}

// Record sets every gauge from r.
func (m *Metrics) Record(r *output.Report) {
	m.files.Set(float64(r.Files))
	m.failedFiles.Set(float64(r.FailedFiles))
	m.lines.Set(float64(r.Lines))
	m.parseErrors.Set(float64(r.ParseErrors))
	m.excluded.Set(float64(r.Excluded))
	m.total.Set(float64(r.Total))
	m.duration.Set(float64(r.DurationMs) / 1000)

	for _, e := range r.Buckets {
		m.buckets.With(prometheus.Labels{"bucket": strconv.Itoa(int(e.Key))}).Set(float64(e.Count))
	}

	if p := r.Percentiles; p != nil {
		for q, v := range map[string]float64{
			"0": p.Min, "0.5": p.P50, "0.9": p.P90, "0.95": p.P95, "0.99": p.P99, "1": p.Max,
		} {
			m.quantiles.With(prometheus.Labels{"quantile": q}).Set(v)
		}
	}
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile atomically writes the metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}

// Export records r and writes it to path in one step.
func Export(path string, r *output.Report) error {
	m := New()
	m.Record(r)
	return m.WriteTextfile(path)
}
