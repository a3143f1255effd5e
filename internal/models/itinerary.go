package models

import "github.com/dharmasatrya/tripplanner/pkg/currency"

type PlanStatus string

const (
	StatusComplete PlanStatus = "complete"
	StatusDegraded PlanStatus = "degraded"
)

type ReferenceStatus string

const (
	ReferencePending   ReferenceStatus = "pending"
	ReferenceConfirmed ReferenceStatus = "confirmed"
	ReferenceFailed    ReferenceStatus = "failed"
)

type BookingReference struct {
	Category Category        `json:"category"`
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Date     *Date           `json:"date,omitempty"`
	Code     string          `json:"code"`
	Status   ReferenceStatus `json:"status"`
	Amount   currency.Money  `json:"amount"`
}

type DayPlan struct {
	Date          Date                   `json:"date"`
	DayNumber     int                    `json:"day_number"`
	Transit       bool                   `json:"transit"`
	ActivityCount int                    `json:"activity_count"`
	DiningCount   int                    `json:"dining_count"`
	Activities    []Activity             `json:"activities"`
	Dining        []DiningRecommendation `json:"dining"`
	Notes         string                 `json:"notes,omitempty"`
}

// Omission records a section left out because its catalog failed.
type Omission struct {
	Category Category `json:"category"`
	Reason   string   `json:"reason"`
	Message  string   `json:"message"`
}

type Itinerary struct {
	ID                  string               `json:"id"`
	Status              PlanStatus           `json:"status"`
	Destination         Destination          `json:"destination"`
	Origin              Destination          `json:"origin"`
	StartDate           Date                 `json:"start_date"`
	EndDate             Date                 `json:"end_date"`
	DurationDays        int                  `json:"duration_days"`
	Travelers           int                  `json:"travelers"`
	Style               TravelStyle          `json:"travel_style"`
	Interests           []string             `json:"interests"`
	Budget              currency.Money       `json:"budget"`
	TotalCost           currency.Money       `json:"total_cost"`
	EstimatedDiningCost currency.Money       `json:"estimated_dining_cost"`
	OutboundFlight      *FlightOption        `json:"outbound_flight,omitempty"`
	ReturnFlight        *FlightOption        `json:"return_flight,omitempty"`
	Accommodation       *AccommodationOption `json:"accommodation,omitempty"`
	Days                []DayPlan            `json:"days"`
	References          []BookingReference   `json:"references"`
	Omissions           []Omission           `json:"omissions,omitempty"`
	Notes               string               `json:"notes"`
}

func (it *Itinerary) Degraded() bool {
	return it.Status == StatusDegraded
}

// OmittedCategories lists the omitted sections in canonical order.
func (it *Itinerary) OmittedCategories() []Category {
	out := make([]Category, 0, len(it.Omissions))
	for _, o := range it.Omissions {
		out = append(out, o.Category)
	}
	return out
}
