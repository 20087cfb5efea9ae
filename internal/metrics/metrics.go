// Package metrics exposes Prometheus instrumentation for playlist analyses,
// extractor invocations, downloads and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// Analysis metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytweb_playlist_analyses_total",
			Help: "Total number of playlist size analyses by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ytweb_playlist_analysis_duration_seconds",
			Help:    "Wall time of one playlist size analysis",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
	)

	PlaylistEntriesAnalyzed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ytweb_playlist_entries_analyzed_total",
			Help: "Playlist members whose encodings were classified",
		},
	)

	PlaylistEntriesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ytweb_playlist_entries_skipped_total",
			Help: "Playlist members skipped because their encodings could not be fetched",
		},
	)

	// Extractor metrics
	ExtractorCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytweb_extractor_call_duration_seconds",
			Help:    "Duration of yt-dlp invocations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)

	// Download metrics
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytweb_downloads_total",
			Help: "Single-video downloads by outcome",
		},
		[]string{"outcome"},
	)

	DownloadsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ytweb_downloads_active",
			Help: "Downloads currently running",
		},
	)

	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytweb_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Outcome maps an error to an outcome label
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// RecordExtractorCall observes one extractor invocation
func RecordExtractorCall(operation string, started time.Time, err error) {
	ExtractorCallDuration.WithLabelValues(operation, Outcome(err)).Observe(time.Since(started).Seconds())
}

// RecordAnalysis observes one completed or failed analysis run
func RecordAnalysis(started time.Time, err error) {
	AnalysesTotal.WithLabelValues(Outcome(err)).Inc()
	AnalysisDuration.Observe(time.Since(started).Seconds())
}
