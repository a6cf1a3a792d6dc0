package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stages
const (
	StageStaging     = "staging"
	StageUpload      = "upload"
	StageRecognition = "recognition"
)

// Upload outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeNoAudio  = "no_audio"
	OutcomeTooLarge = "too_large"
	OutcomeFailed   = "failed"
	OutcomeCacheHit = "cache_hit"
)

// Metrics contains all Prometheus metrics for the relay
type Metrics struct {
	Registry *prometheus.Registry

	// Pipeline metrics
	Uploads       *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	StageFailures *prometheus.CounterVec
	UploadBytes   prometheus.Histogram
	CacheHits     prometheus.Counter

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates all metrics on a fresh registry that also carries the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_uploads_total",
			Help: "Total number of upload requests by outcome",
		}, []string{"outcome"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),
		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_stage_failures_total",
			Help: "Total number of failures by pipeline stage",
		}, []string{"stage"}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_upload_bytes",
			Help:    "Size of staged audio files",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_cache_hits_total",
			Help: "Total number of transcripts served from cache",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveStage records how long a stage took
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordStageFailure counts a failed stage
func (m *Metrics) RecordStageFailure(stage string) {
	m.StageFailures.WithLabelValues(stage).Inc()
}

// RecordOutcome counts a finished upload request
func (m *Metrics) RecordOutcome(outcome string) {
	m.Uploads.WithLabelValues(outcome).Inc()
}
