package models

import (
	"slices"
	"strings"

	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

// MaxTripDays bounds the date range a single request may plan.
const MaxTripDays = 60

type TravelStyle string

const (
	StyleBudget   TravelStyle = "budget"
	StyleStandard TravelStyle = "standard"
	StyleLuxury   TravelStyle = "luxury"
)

func (s TravelStyle) Valid() bool {
	switch s {
	case StyleBudget, StyleStandard, StyleLuxury:
		return true
	}
	return false
}

// PlanRequest is the wire shape accepted from the routing layer.
type PlanRequest struct {
	Destination         string         `json:"destination"`
	Origin              string         `json:"origin,omitempty"`
	Budget              currency.Money `json:"budget"`
	StartDate           string         `json:"start_date"`
	EndDate             string         `json:"end_date"`
	Travelers           int            `json:"travelers"`
	TravelStyle         string         `json:"travel_style"`
	Interests           []string       `json:"interests"`
	SpecialRequirements string         `json:"special_requirements,omitempty"`
	ContactEmail        string         `json:"contact_email,omitempty"`
}

// ToTripRequest parses dates and applies defaults. It does not validate the
// budget; that belongs to the allocator.
func (r PlanRequest) ToTripRequest() (TripRequest, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return TripRequest{}, &InvalidDateRangeError{Start: r.StartDate, End: r.EndDate, Reason: "start_date must be YYYY-MM-DD"}
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return TripRequest{}, &InvalidDateRangeError{Start: r.StartDate, End: r.EndDate, Reason: "end_date must be YYYY-MM-DD"}
	}

	travelers := r.Travelers
	if travelers == 0 {
		travelers = 1
	}

	req := TripRequest{
		Destination:         r.Destination,
		Origin:              r.Origin,
		Budget:              r.Budget,
		StartDate:           start,
		EndDate:             end,
		Travelers:           travelers,
		Style:               TravelStyle(strings.ToLower(strings.TrimSpace(r.TravelStyle))),
		Interests:           r.Interests,
		SpecialRequirements: r.SpecialRequirements,
		ContactEmail:        r.ContactEmail,
	}
	return req.Normalized(), nil
}

// TripRequest is the validated planning input. The orchestrator only ever
// works on a normalized copy.
type TripRequest struct {
	Destination         string
	Origin              string
	Budget              currency.Money
	StartDate           Date
	EndDate             Date
	Travelers           int
	Style               TravelStyle
	Interests           []string
	SpecialRequirements string
	ContactEmail        string
}

// Normalized returns a copy with trimmed text, a default style and interests
// lower-cased, de-duplicated and sorted.
func (r TripRequest) Normalized() TripRequest {
	out := r
	out.Destination = strings.TrimSpace(r.Destination)
	out.Origin = strings.TrimSpace(r.Origin)
	out.SpecialRequirements = strings.TrimSpace(r.SpecialRequirements)
	out.ContactEmail = strings.TrimSpace(r.ContactEmail)
	if out.Style == "" {
		out.Style = StyleStandard
	}

	interests := make([]string, 0, len(r.Interests))
	for _, tag := range r.Interests {
		if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
			interests = append(interests, t)
		}
	}
	slices.Sort(interests)
	out.Interests = slices.Compact(interests)

	return out
}

func (r TripRequest) Validate() error {
	if r.Destination == "" {
		return ErrMissingDestination
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return &InvalidDateRangeError{Start: r.StartDate.String(), End: r.EndDate.String(), Reason: "start and end dates are required"}
	}
	if r.EndDate.Before(r.StartDate) {
		return &InvalidDateRangeError{Start: r.StartDate.String(), End: r.EndDate.String(), Reason: "end date is before start date"}
	}
	if r.DurationDays() > MaxTripDays {
		return &InvalidDateRangeError{Start: r.StartDate.String(), End: r.EndDate.String(), Reason: "trip is longer than the supported maximum"}
	}
	if r.Travelers < 1 {
		return ErrInvalidTravelers
	}
	if !r.Style.Valid() {
		return ErrUnknownTravelStyle
	}
	return nil
}

// DurationDays counts the inclusive date range.
func (r TripRequest) DurationDays() int {
	return r.StartDate.DaysUntil(r.EndDate) + 1
}

// Nights is the number of hotel nights between start and end.
func (r TripRequest) Nights() int {
	return r.StartDate.DaysUntil(r.EndDate)
}

// Dates lists every date of the trip in order.
func (r TripRequest) Dates() []Date {
	n := r.DurationDays()
	if n <= 0 {
		return nil
	}
	dates := make([]Date, n)
	for i := range dates {
		dates[i] = r.StartDate.AddDays(i)
	}
	return dates
}

// Rooms assumes two travelers share a room.
func (r TripRequest) Rooms() int {
	return max(1, (r.Travelers+1)/2)
}
