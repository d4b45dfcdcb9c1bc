// Package metrics holds the Prometheus instrumentation of brandkit.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brandkit"

// Extraction outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeDarkLost = "dark_failed"
)

// Metrics holds every brandkit collector. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	reg *prometheus.Registry

	Extractions        *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	DarkModeDetected   prometheus.Counter
	CacheRequests      *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers the brandkit collectors, plus the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		Extractions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total page extractions by outcome",
		}, []string{"outcome"}),
		ExtractionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Wall time of one extraction, sampling included",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		}),
		DarkModeDetected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dark_mode_detected_total",
			Help:      "Extractions whose dark render differed from the light render",
		}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Kit cache lookups by result",
		}, []string{"result"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// RecordExtraction records one finished extraction.
func (m *Metrics) RecordExtraction(outcome string, d time.Duration, darkDetected bool) {
	if m == nil {
		return
	}
	m.Extractions.WithLabelValues(outcome).Inc()
	m.ExtractionDuration.Observe(d.Seconds())
	if darkDetected {
		m.DarkModeDetected.Inc()
	}
}

// RecordCache records a cache hit or miss.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// RecordHTTP records one served request.
func (m *Metrics) RecordHTTP(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
}
