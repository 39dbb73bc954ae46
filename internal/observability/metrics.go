package observability

import (
	"errors"
	"strings"
	"time"

	"vibeconnect/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeconnect_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records store query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vibeconnect_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PollCyclesTotal counts notification poll cycles by outcome (ok, failed, discarded).
	PollCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeconnect_poll_cycles_total",
		Help: "Total number of notification poll cycles by outcome",
	}, []string{"outcome"})

	// PollCycleDuration records the wall time of a poll cycle.
	PollCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vibeconnect_poll_cycle_duration_seconds",
		Help:    "Duration of notification poll cycles in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// NotificationsDropped counts pending requests left out of an inbox because the sender could not be resolved.
	NotificationsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeconnect_notifications_dropped_total",
		Help: "Pending requests dropped from a poll result by reason",
	}, []string{"reason"})

	// ConnectionRequestsTotal counts createRequest calls by outcome.
	ConnectionRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeconnect_connection_requests_total",
		Help: "Connection request creations by outcome",
	}, []string{"outcome"})

	// ResolveAttemptsTotal counts resolveRequest calls by decision and outcome.
	ResolveAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeconnect_resolve_attempts_total",
		Help: "Connection request resolutions by decision and outcome",
	}, []string{"decision", "outcome"})

	// OptimisticRollbacksTotal counts notifications restored after a failed resolve.
	OptimisticRollbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibeconnect_optimistic_rollbacks_total",
		Help: "Notifications restored after a failed optimistic resolve",
	})
)

// DatabaseMetrics records query latency for one store backend.
type DatabaseMetrics struct {
	table string
}

// NewDatabaseMetrics returns a DatabaseMetrics bound to table.
func NewDatabaseMetrics(table string) *DatabaseMetrics {
	return &DatabaseMetrics{table: table}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, m.table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}

// Outcome turns an error into a short metric label.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return strings.ToLower(appErr.Code)
	}
	return "error"
}
