// Package metrics exposes Prometheus collectors for renders, jobs and HTTP
// traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist.
type Metrics struct {
	registry *prometheus.Registry

	renders       *prometheus.CounterVec
	renderSeconds *prometheus.HistogramVec
	outputBytes   prometheus.Counter
	jobs          *prometheus.CounterVec
	requests      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikiplain_renders_total",
				Help: "Documents rendered to plain text, by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		renderSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wikiplain_render_duration_seconds",
				Help:    "Time spent rendering a document tree.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"source"},
		),
		outputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wikiplain_render_output_bytes_total",
			Help: "Bytes of plain text produced.",
		}),
		jobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikiplain_jobs_total",
				Help: "Finished async jobs, by final status.",
			},
			[]string{"status"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikiplain_http_requests_total",
				Help: "HTTP requests, by method and status code.",
			},
			[]string{"method", "code"},
		),
	}
	m.registry.MustRegister(m.renders, m.renderSeconds, m.outputBytes, m.jobs, m.requests)
	return m
}

// ObserveRender records one render. source is "tree" for submitted trees or
// the file extension for converted uploads.
func (m *Metrics) ObserveRender(source string, d time.Duration, outputBytes int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.renders.WithLabelValues(source, outcome).Inc()
	if err == nil {
		m.renderSeconds.WithLabelValues(source).Observe(d.Seconds())
		m.outputBytes.Add(float64(outputBytes))
	}
}

// ObserveJob counts a job reaching a final status.
func (m *Metrics) ObserveJob(status string) {
	m.jobs.WithLabelValues(status).Inc()
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(method string, code int) {
	m.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// TrackQueueDepth exports fn as the current job queue depth.
func (m *Metrics) TrackQueueDepth(fn func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "wikiplain_queue_depth",
			Help: "Jobs waiting for a worker.",
		},
		func() float64 { return float64(fn()) },
	))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
