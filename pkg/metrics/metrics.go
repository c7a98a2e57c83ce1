// Package metrics counts what a conversion run did using Prometheus
// collectors. Each run owns a Collector with its own registry; at the end
// of the run the registry can be written to a node_exporter textfile.
//
// # Basic Usage
//
//	collector := metrics.NewCollector("assembly_report")
//	collector.LineRead(models.DataLine.String())
//	collector.RowConverted()
//	collector.QuadsEmitted("assertion", 12)
//	collector.RowSkipped(string(parse.ShortRow))
//	_ = collector.WriteToTextfile("/var/lib/node_exporter/nanoconv.prom")
//
// # Metric Types
//
// Counter: lines read, rows converted, rows skipped by reason, quads by role
// Gauge: resident memory of the process, run duration
// Histogram: time spent converting one row
package metrics

import (
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
)

const namespace = "nanoconv"

// Collector holds the metrics of one conversion run. It is safe for
// concurrent use.
type Collector struct {
	subtype  string
	registry *prometheus.Registry

	linesRead     *prometheus.CounterVec
	rowsConverted prometheus.Counter
	rowsSkipped   *prometheus.CounterVec
	quads         *prometheus.CounterVec
	rowLatency    prometheus.Histogram
	residentBytes prometheus.Gauge
	runDuration   prometheus.Gauge

	proc      *process.Process
	startTime time.Time
	mu        sync.Mutex
}

// NewCollector creates the collectors for a run of the given subtype
func NewCollector(subtype string) *Collector {
	labels := prometheus.Labels{"subtype": subtype}
	c := &Collector{
		subtype:   subtype,
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),

		linesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "lines_read_total",
			Help:        "Input lines read, by kind",
			ConstLabels: labels,
		}, []string{"kind"}),
		rowsConverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rows_converted_total",
			Help:        "Data rows converted into nanopublications",
			ConstLabels: labels,
		}),
		rowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rows_skipped_total",
			Help:        "Data rows skipped, by failure reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		quads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "quads_total",
			Help:        "Quads handed to the sink, by graph role",
			ConstLabels: labels,
		}, []string{"role"}),
		rowLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "row_duration_seconds",
			Help:        "Time to convert and sink one row",
			ConstLabels: labels,
			Buckets: []float64{
				1e-6, // 1μs
				1e-5, // 10μs
				1e-4, // 100μs
				1e-3, // 1ms, typical for a buffered row
				1e-2, // 10ms, typical for a remote row
				1e-1,
				1,
			},
		}),
		residentBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "resident_memory_bytes",
			Help:        "Resident set size of the process at the last sample",
			ConstLabels: labels,
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Wall time of the run at the last sample",
			ConstLabels: labels,
		}),
	}

	c.registry.MustRegister(
		c.linesRead, c.rowsConverted, c.rowsSkipped, c.quads,
		c.rowLatency, c.residentBytes, c.runDuration,
	)

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		c.proc = proc
	}
	return c
}

// Registry returns the registry holding the run's collectors
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// LineRead counts one input line of the given kind (header or data)
func (c *Collector) LineRead(kind string) {
	c.linesRead.WithLabelValues(kind).Inc()
}

// RowConverted counts one converted row
func (c *Collector) RowConverted() {
	c.rowsConverted.Inc()
}

// RowSkipped counts one skipped row
func (c *Collector) RowSkipped(reason string) {
	c.rowsSkipped.WithLabelValues(reason).Inc()
}

// QuadsEmitted counts n quads written to a graph with the given role
func (c *Collector) QuadsEmitted(role string, n int) {
	c.quads.WithLabelValues(role).Add(float64(n))
}

// ObserveRow records how long one row took
func (c *Collector) ObserveRow(d time.Duration) {
	c.rowLatency.Observe(d.Seconds())
}

// Sample updates the memory and duration gauges
func (c *Collector) Sample() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runDuration.Set(time.Since(c.startTime).Seconds())
	if c.proc == nil {
		return
	}
	if mem, err := c.proc.MemoryInfo(); err == nil {
		c.residentBytes.Set(float64(mem.RSS))
	}
}

// WriteToTextfile samples the gauges and writes every metric of the run
// to path in the Prometheus text format
func (c *Collector) WriteToTextfile(path string) error {
	c.Sample()
	return prometheus.WriteToTextfile(path, c.registry)
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the name the timer was created with
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. It can be called
// more than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
