package orchestrator

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.observePlan("complete", time.Millisecond)
		m.observeCatalog(models.CategoryDining, "ok", time.Millisecond)
		m.observeTransition(StateComplete)
	})
}

func TestMetrics_Counts(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.observePlan("degraded", time.Millisecond)
	m.observeCatalog(models.CategoryAccommodation, "timeout", time.Second)
	m.observeTransition(StateDegraded)
	m.observeTransition(StateDegraded)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.plans.WithLabelValues("degraded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogCalls.WithLabelValues("accommodation", "timeout")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("degraded")))
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "", joinList(nil))
	assert.Equal(t, "food", joinList([]string{"food"}))
	assert.Equal(t, "food and culture", joinList([]string{"food", "culture"}))
	assert.Equal(t, "culture, food, and shopping", joinList([]string{"culture", "food", "shopping"}))
}

func TestBuildNotes(t *testing.T) {
	req := models.TripRequest{
		StartDate: models.NewDate(2025, time.May, 9),
		EndDate:   models.NewDate(2025, time.May, 11),
		Style:     models.StyleBudget,
	}
	dest := models.Destination{City: "Paris"}
	omissions := []models.Omission{{Category: models.CategoryAccommodation, Message: omissionMessage(models.CategoryAccommodation)}}

	notes := buildNotes(req, dest, omissions, []models.Category{models.CategoryDining})

	assert.Equal(t, "This budget-friendly 3-day Paris itinerary covers the city's highlights."+
		" Accommodation unavailable for selected dates."+
		" No dining recommendations found within budget.", notes)
}
