// Package metrics holds the Prometheus collectors for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application: counters for
// task lifecycle activity, a gauge per alert bucket, and a histogram for
// HTTP request durations.
type Metrics struct {
	TasksCreated     prometheus.Counter       // Counter for created tasks
	TaskTransitions  *prometheus.CounterVec   // Counter for applied status transitions, by target status
	FollowUpsCreated prometheus.Counter       // Counter for auto-created follow-up tasks
	AlertsByBucket   *prometheus.GaugeVec     // Gauge for the last classification result, by bucket
	HTTPDuration     *prometheus.HistogramVec // Histogram for HTTP request durations
}

// NewMetrics creates a new Metrics instance registered against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		TasksCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "upkeep_tasks_created_total",
			Help: "Total number of maintenance tasks created",
		}),
		TaskTransitions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "upkeep_task_transitions_total",
			Help: "Total number of applied status transitions",
		}, []string{"to"}), // to: in-progress, completed, cancelled, partial
		FollowUpsCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "upkeep_followups_created_total",
			Help: "Total number of auto-created recurring follow-up tasks",
		}),
		AlertsByBucket: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "upkeep_alerts",
			Help: "Alert count from the most recent classification",
		}, []string{"bucket"}), // bucket: overdue, today, upcoming
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "upkeep_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}
