package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for CaseVault.
type Metrics struct {
	config MetricsConfig

	// Store metrics
	storeInserts *prometheus.CounterVec
	storeQueries *prometheus.CounterVec
	storeDeletes prometheus.Counter

	// Error metrics
	errorsByClass *prometheus.CounterVec

	// Ingest metrics
	ingestsCompleted *prometheus.CounterVec
	ingestDuration   *prometheus.HistogramVec
	casesIngested    prometheus.Counter

	// Watcher metrics
	watcherEvents *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		storeInserts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_inserts_total",
				Help:      "Total number of rows inserted, by entity",
			},
			[]string{"entity"},
		),
		storeQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_queries_total",
				Help:      "Total number of retrieval operations, by operation",
			},
			[]string{"operation"},
		),
		storeDeletes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_deletes_total",
				Help:      "Total number of file deletions (cascading to cases)",
			},
		),

		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of store errors by error class",
			},
			[]string{"class"},
		),

		ingestsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingests_completed_total",
				Help:      "Total number of manifest ingests completed",
			},
			[]string{"status"},
		),
		ingestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingest_duration_seconds",
				Help:      "Duration of manifest ingestion in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),
		casesIngested: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cases_ingested_total",
				Help:      "Total number of test cases ingested",
			},
		),

		watcherEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "watcher_events_total",
				Help:      "Total number of uploads-directory events handled",
			},
			[]string{"op"},
		),
	}

	registry.MustRegister(
		m.storeInserts,
		m.storeQueries,
		m.storeDeletes,
		m.errorsByClass,
		m.ingestsCompleted,
		m.ingestDuration,
		m.casesIngested,
		m.watcherEvents,
	)

	return m, nil
}

// RecordInsert increments the insert counter for an entity
// ("test_case_file" or "test_case").
func (m *Metrics) RecordInsert(entity string) {
	if m.storeInserts == nil {
		return
	}
	m.storeInserts.WithLabelValues(entity).Inc()
}

// RecordQuery increments the retrieval counter for an operation.
func (m *Metrics) RecordQuery(operation string) {
	if m.storeQueries == nil {
		return
	}
	m.storeQueries.WithLabelValues(operation).Inc()
}

// RecordDelete increments the file deletion counter.
func (m *Metrics) RecordDelete() {
	if m.storeDeletes == nil {
		return
	}
	m.storeDeletes.Inc()
}

// RecordError records a store error by class (schema, constraint, storage).
func (m *Metrics) RecordError(errorClass string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
}

// RecordIngest records a completed manifest ingest with its status,
// duration, and the number of cases written.
func (m *Metrics) RecordIngest(status string, duration time.Duration, caseCount int) {
	if m.ingestsCompleted == nil {
		return
	}
	m.ingestsCompleted.WithLabelValues(status).Inc()
	m.ingestDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.casesIngested.Add(float64(caseCount))
}

// RecordWatcherEvent records a handled uploads-directory event.
func (m *Metrics) RecordWatcherEvent(op string) {
	if m.watcherEvents == nil {
		return
	}
	m.watcherEvents.WithLabelValues(op).Inc()
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Log error but don't fail the application
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
