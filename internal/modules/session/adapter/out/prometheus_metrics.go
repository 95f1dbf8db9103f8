package out

import (
	"github.com/prometheus/client_golang/prometheus"

	"efforts/internal/modules/session/domain"
)

// PrometheusMetrics records lifecycle events as efforts_* series.
type PrometheusMetrics struct {
	started      prometheus.Counter
	plannedTotal prometheus.Counter
	completed    *prometheus.CounterVec
	cancelled    prometheus.Counter
	focusMinutes prometheus.Counter
	points       prometheus.Counter
	failures     *prometheus.CounterVec
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "efforts_sessions_started_total",
			Help: "Total focus sessions started",
		}),
		plannedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "efforts_planned_minutes_total",
			Help: "Minutes planned across started sessions",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "efforts_sessions_completed_total",
			Help: "Total focus sessions completed, by quality",
		}, []string{"quality"}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "efforts_sessions_cancelled_total",
			Help: "Total focus sessions cancelled",
		}),
		focusMinutes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "efforts_focus_minutes_total",
			Help: "Minutes of completed focus",
		}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "efforts_points_total",
			Help: "Points earned by completed sessions",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "efforts_storage_failures_total",
			Help: "Failed storage operations, by operation",
		}, []string{"op"}),
	}
	reg.MustRegister(m.started, m.plannedTotal, m.completed, m.cancelled, m.focusMinutes, m.points, m.failures)
	return m
}

func (m *PrometheusMetrics) SessionStarted(planned int) {
	m.started.Inc()
	m.plannedTotal.Add(float64(planned))
}

func (m *PrometheusMetrics) SessionCompleted(quality domain.Quality, minutes, points int) {
	m.completed.WithLabelValues(string(quality)).Inc()
	m.focusMinutes.Add(float64(minutes))
	m.points.Add(float64(points))
}

func (m *PrometheusMetrics) SessionCancelled() {
	m.cancelled.Inc()
}

func (m *PrometheusMetrics) OperationFailed(op string) {
	m.failures.WithLabelValues(op).Inc()
}
