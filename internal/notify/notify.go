// Package notify hands planned itineraries to the confirmation service. The
// service renders and delivers email; this side only publishes events.
package notify

import (
	"context"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

const EventItineraryPlanned = "itinerary.planned"

type ItineraryPlanned struct {
	Type         string                    `json:"type"`
	ItineraryID  string                    `json:"itinerary_id"`
	Status       models.PlanStatus         `json:"status"`
	ContactEmail string                    `json:"contact_email"`
	Destination  string                    `json:"destination"`
	StartDate    models.Date               `json:"start_date"`
	EndDate      models.Date               `json:"end_date"`
	Travelers    int                       `json:"travelers"`
	TotalCost    currency.Money            `json:"total_cost"`
	References   []models.BookingReference `json:"references"`
	Omitted      []models.Category         `json:"omitted,omitempty"`
	OccurredAt   time.Time                 `json:"occurred_at"`
}

// NewItineraryPlanned builds the event for a finished itinerary.
func NewItineraryPlanned(it *models.Itinerary, contactEmail string, now time.Time) ItineraryPlanned {
	return ItineraryPlanned{
		Type:         EventItineraryPlanned,
		ItineraryID:  it.ID,
		Status:       it.Status,
		ContactEmail: contactEmail,
		Destination:  it.Destination.City,
		StartDate:    it.StartDate,
		EndDate:      it.EndDate,
		Travelers:    it.Travelers,
		TotalCost:    it.TotalCost,
		References:   it.References,
		Omitted:      it.OmittedCategories(),
		OccurredAt:   now.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event ItineraryPlanned) error
	Close() error
}

// NoOpPublisher drops every event. Used when no broker is configured.
type NoOpPublisher struct{}

func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (p *NoOpPublisher) Publish(ctx context.Context, event ItineraryPlanned) error {
	return nil
}

func (p *NoOpPublisher) Close() error {
	return nil
}
