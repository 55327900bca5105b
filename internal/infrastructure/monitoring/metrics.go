package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "consoled"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Console metrics
	LinesCommitted   prometheus.Counter
	LineBytes        prometheus.Histogram
	HistoryRecalls   *prometheus.CounterVec
	ReadBytes        prometheus.Counter
	ReadsInterrupted prometheus.Counter
	WriteBytes       prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSBytes       *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates a metrics collector backed by its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		// Console metrics
		LinesCommitted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "console",
				Name:      "lines_committed_total",
				Help:      "Total number of input lines committed to readers",
			},
		),
		LineBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "console",
				Name:      "line_bytes",
				Help:      "Size of committed input lines in bytes",
				Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
			},
		),
		HistoryRecalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "console",
				Name:      "history_recalls_total",
				Help:      "Total number of history recalls",
			},
			[]string{"direction"},
		),
		ReadBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "console",
				Name:      "read_bytes_total",
				Help:      "Total number of bytes delivered to readers",
			},
		),
		ReadsInterrupted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "console",
				Name:      "reads_interrupted_total",
				Help:      "Total number of reads abandoned because the reader was killed",
			},
		),
		WriteBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "console",
				Name:      "write_bytes_total",
				Help:      "Total number of bytes written to the console",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Number of active WebSocket terminals",
			},
		),
		WSBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_bytes_total",
				Help:      "Total number of bytes carried by WebSocket terminals",
			},
			[]string{"direction"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Daemon uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)
	reg.MustRegister(collectors.NewGoCollector())

	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RegisterGauge exposes a value computed at scrape time, e.g. process count.
func (m *Metrics) RegisterGauge(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help},
		fn,
	))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// LineCommitted records a line made visible to readers.
func (m *Metrics) LineCommitted(bytes int) {
	m.LinesCommitted.Inc()
	m.LineBytes.Observe(float64(bytes))
}

// HistoryRecalled records a history recall in direction "older" or "newer".
func (m *Metrics) HistoryRecalled(direction string) {
	m.HistoryRecalls.WithLabelValues(direction).Inc()
}

// ReadCompleted records bytes returned by a console read.
func (m *Metrics) ReadCompleted(bytes int) {
	m.ReadBytes.Add(float64(bytes))
}

// ReadInterrupted records a read abandoned on cancellation.
func (m *Metrics) ReadInterrupted() {
	m.ReadsInterrupted.Inc()
}

// BytesWritten records bytes accepted by a console write.
func (m *Metrics) BytesWritten(bytes int) {
	m.WriteBytes.Add(float64(bytes))
}

// RecordWSBytes records terminal traffic; direction is "in" or "out".
func (m *Metrics) RecordWSBytes(direction string, n int) {
	m.WSBytes.WithLabelValues(direction).Add(float64(n))
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}
