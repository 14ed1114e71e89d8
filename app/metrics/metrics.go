package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sieve"

// Skip reasons recorded for entries that did not become stored articles.
const (
	SkipNoLink     = "no_link"
	SkipAd         = "ad"
	SkipIrrelevant = "irrelevant"
	SkipUnlabeled  = "unlabeled"
	SkipDuplicate  = "duplicate"
	SkipWriteError = "write_error"
)

// Metrics owns the collectors of the pipeline. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	articlesIngested      *prometheus.CounterVec
	articlesSkipped       *prometheus.CounterVec
	sourceFailures        *prometheus.CounterVec
	articlesPurged        prometheus.Counter
	articlesRecategorized prometheus.Counter
	sweepDuration         prometheus.Histogram
	tasksCompleted        *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		articlesIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_ingested_total",
			Help:      "Articles stored for the first time, by source.",
		}, []string{"source"}),
		articlesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_skipped_total",
			Help:      "Feed entries not stored, by reason.",
		}, []string{"reason"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Sources that could not be fetched or parsed during a sweep.",
		}, []string{"source"}),
		articlesPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_purged_total",
			Help:      "Articles deleted by the retention purge.",
		}),
		articlesRecategorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_recategorized_total",
			Help:      "Articles whose labels changed during recategorization.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of full ingestion sweeps.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		tasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Background tasks finished, by type and status.",
		}, []string{"type", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.articlesIngested,
		m.articlesSkipped,
		m.sourceFailures,
		m.articlesPurged,
		m.articlesRecategorized,
		m.sweepDuration,
		m.tasksCompleted,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveIngested(source string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.articlesIngested.WithLabelValues(source).Add(float64(count))
}

func (m *Metrics) ObserveSkipped(reason string) {
	if m == nil {
		return
	}
	m.articlesSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveSourceFailure(source string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) ObservePurged(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.articlesPurged.Add(float64(count))
}

func (m *Metrics) ObserveRecategorized(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.articlesRecategorized.Add(float64(count))
}

func (m *Metrics) ObserveSweep(duration time.Duration) {
	if m == nil {
		return
	}
	m.sweepDuration.Observe(duration.Seconds())
}

func (m *Metrics) ObserveTask(taskType string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.tasksCompleted.WithLabelValues(taskType, status).Inc()
}
