// Package metrics provides Prometheus metrics for the scoring pipeline.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeExported = "exported"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"

	OutcomeOK        = "ok"
	OutcomeRetry     = "retry"
	OutcomeExhausted = "exhausted"
	OutcomeFallback  = "fallback"
)

// Manager owns every pipeline metric.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	matchesListed    prometheus.Counter
	matchesProcessed *prometheus.CounterVec
	fetchRequests    *prometheus.CounterVec
	fetchRetries     prometheus.Counter
	rowsSkipped      *prometheus.CounterVec
	identityMisses   prometheus.Counter
	ambiguousNames   prometheus.Counter
	rowsExported     prometheus.Counter
	exportErrors     prometheus.Counter
	stageDuration    *prometheus.HistogramVec
	lastRunUnix      prometheus.Gauge
	lastRunDuration  prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry behind the singleton

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init rebuilds the global manager with opts on a fresh registry. Values
// recorded before the call are dropped. Call it once at startup, before
// any stage records.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fantasy",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: m.constLabels,
		}
	}

	m.matchesListed = auto.NewCounter(prometheus.CounterOpts(opts("matches_listed_total", "Matches found on listing pages")))
	m.matchesProcessed = auto.NewCounterVec(prometheus.CounterOpts(opts("matches_processed_total", "Matches handled, by outcome")), []string{"outcome"})
	m.fetchRequests = auto.NewCounterVec(prometheus.CounterOpts(opts("fetch_requests_total", "Upstream HTTP requests, by outcome")), []string{"outcome"})
	m.fetchRetries = auto.NewCounter(prometheus.CounterOpts(opts("fetch_retries_total", "Upstream HTTP retries after a transient failure")))
	m.rowsSkipped = auto.NewCounterVec(prometheus.CounterOpts(opts("parse_rows_skipped_total", "Scorecard rows rejected by the parser, by kind")), []string{"kind"})
	m.identityMisses = auto.NewCounter(prometheus.CounterOpts(opts("identity_misses_total", "Dismissal names that did not resolve to a known player")))
	m.ambiguousNames = auto.NewCounter(prometheus.CounterOpts(opts("identity_ambiguous_total", "Name variations claimed by more than one player")))
	m.rowsExported = auto.NewCounter(prometheus.CounterOpts(opts("rows_exported_total", "Player point rows written to the store")))
	m.exportErrors = auto.NewCounter(prometheus.CounterOpts(opts("export_errors_total", "Failed store writes")))
	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Time spent per pipeline stage",
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, []string{"stage"})
	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts(opts("last_run_timestamp_seconds", "Unix time the last run finished")))
	m.lastRunDuration = auto.NewGauge(prometheus.GaugeOpts(opts("last_run_duration_seconds", "Wall time of the last run")))
}

// RecordMatchesListed adds n listed matches.
func (m *Manager) RecordMatchesListed(n int) {
	if m.enabled {
		m.matchesListed.Add(float64(n))
	}
}

// RecordMatchProcessed counts one match by outcome.
func (m *Manager) RecordMatchProcessed(outcome string) {
	if m.enabled {
		m.matchesProcessed.WithLabelValues(outcome).Inc()
	}
}

// RecordFetch counts one HTTP attempt by outcome.
func (m *Manager) RecordFetch(outcome string) {
	if m.enabled {
		m.fetchRequests.WithLabelValues(outcome).Inc()
	}
}

// RecordFetchRetry counts one retry.
func (m *Manager) RecordFetchRetry() {
	if m.enabled {
		m.fetchRetries.Inc()
	}
}

// RecordRowSkipped counts a rejected scorecard row.
func (m *Manager) RecordRowSkipped(kind string) {
	if m.enabled {
		m.rowsSkipped.WithLabelValues(kind).Inc()
	}
}

// RecordIdentityMiss counts an unresolved dismissal name.
func (m *Manager) RecordIdentityMiss() {
	if m.enabled {
		m.identityMisses.Inc()
	}
}

// RecordAmbiguousNames adds n ambiguous variations.
func (m *Manager) RecordAmbiguousNames(n int) {
	if m.enabled && n > 0 {
		m.ambiguousNames.Add(float64(n))
	}
}

// RecordRowsExported adds n written rows.
func (m *Manager) RecordRowsExported(n int) {
	if m.enabled {
		m.rowsExported.Add(float64(n))
	}
}

// RecordExportError counts a failed store write.
func (m *Manager) RecordExportError() {
	if m.enabled {
		m.exportErrors.Inc()
	}
}

// ObserveStage records how long a stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// RecordRunFinished stamps the end of a run.
func (m *Manager) RecordRunFinished(at time.Time, took time.Duration) {
	if m.enabled {
		m.lastRunUnix.Set(float64(at.Unix()))
		m.lastRunDuration.Set(took.Seconds())
	}
}

// Package-level helpers backed by the global manager.

func RecordMatchesListed(n int)                       { globalManager.RecordMatchesListed(n) }
func RecordMatchProcessed(outcome string)             { globalManager.RecordMatchProcessed(outcome) }
func RecordFetch(outcome string)                      { globalManager.RecordFetch(outcome) }
func RecordFetchRetry()                               { globalManager.RecordFetchRetry() }
func RecordRowSkipped(kind string)                    { globalManager.RecordRowSkipped(kind) }
func RecordIdentityMiss()                             { globalManager.RecordIdentityMiss() }
func RecordAmbiguousNames(n int)                      { globalManager.RecordAmbiguousNames(n) }
func RecordRowsExported(n int)                        { globalManager.RecordRowsExported(n) }
func RecordExportError()                              { globalManager.RecordExportError() }
func ObserveStage(stage string, d time.Duration)      { globalManager.ObserveStage(stage, d) }
func RecordRunFinished(at time.Time, d time.Duration) { globalManager.RecordRunFinished(at, d) }

// GetRegistry returns the registry behind the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps g in the node-exporter textfile format. A nil
// gatherer writes the global registry.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = customRegistry
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
