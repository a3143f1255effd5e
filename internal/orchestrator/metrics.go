package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	plans           *prometheus.CounterVec
	planDuration    prometheus.Histogram
	catalogCalls    *prometheus.CounterVec
	catalogDuration *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		plans: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_plans_total",
			Help: "Planning requests by outcome",
		}, []string{"outcome"}),
		planDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripplanner_plan_duration_seconds",
			Help:    "Time taken to plan an itinerary",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}),
		catalogCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_catalog_queries_total",
			Help: "Catalog queries by category and result",
		}, []string{"category", "result"}),
		catalogDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripplanner_catalog_query_duration_seconds",
			Help:    "Catalog query latency including retries",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}, []string{"category"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_state_transitions_total",
			Help: "Planner state machine transitions by entered state",
		}, []string{"state"}),
	}
}

func (m *Metrics) observePlan(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.plans.WithLabelValues(outcome).Inc()
	m.planDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeCatalog(category models.Category, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.catalogCalls.WithLabelValues(string(category), result).Inc()
	m.catalogDuration.WithLabelValues(string(category)).Observe(elapsed.Seconds())
}

func (m *Metrics) observeTransition(s State) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(s)).Inc()
}
