package models

import (
	"slices"
	"strings"
	"time"

	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

type Destination struct {
	City     string `json:"city"`
	Country  string `json:"country"`
	Region   string `json:"region,omitempty"`
	Airport  string `json:"airport"`
	Timezone string `json:"timezone,omitempty"`
}

type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

// Rank orders cabins by quality; unknown cabins rank lowest.
func (c CabinClass) Rank() int {
	switch c {
	case CabinEconomy:
		return 1
	case CabinPremiumEconomy:
		return 2
	case CabinBusiness:
		return 3
	case CabinFirst:
		return 4
	default:
		return 0
	}
}

type FlightOption struct {
	ID               string         `json:"id"`
	Carrier          string         `json:"carrier"`
	CarrierCode      string         `json:"carrier_code"`
	FlightNumber     string         `json:"flight_number"`
	Origin           string         `json:"origin"`
	Destination      string         `json:"destination"`
	DepartureTime    time.Time      `json:"departure_time"`
	ArrivalTime      time.Time      `json:"arrival_time"`
	DurationMinutes  int            `json:"duration_minutes"`
	Stops            int            `json:"stops"`
	CabinClass       CabinClass     `json:"cabin_class"`
	CarrierRating    float64        `json:"carrier_rating"`
	FarePerPassenger currency.Money `json:"fare_per_passenger"`
	Passengers       int            `json:"passengers"`
	Price            currency.Money `json:"price"`
}

func (f FlightOption) Route() string {
	return f.Origin + "-" + f.Destination
}

// Quality ranks cabin first, then carrier rating.
func (f FlightOption) Quality() float64 {
	return float64(f.CabinClass.Rank())*10 + f.CarrierRating
}

type AccommodationOption struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	PropertyType string         `json:"property_type"`
	RoomType     string         `json:"room_type"`
	Rating       float64        `json:"rating"`
	CheckIn      Date           `json:"check_in"`
	CheckOut     Date           `json:"check_out"`
	NightlyPrice currency.Money `json:"nightly_price"`
	Rooms        int            `json:"rooms"`
	Nights       int            `json:"nights"`
	TotalPrice   currency.Money `json:"total_price"`
	Amenities    []string       `json:"amenities,omitempty"`
}

type Activity struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Category        string         `json:"category"`
	Tags            []string       `json:"tags"`
	Description     string         `json:"description,omitempty"`
	StartTime       string         `json:"start_time,omitempty"`
	DurationMinutes int            `json:"duration_minutes"`
	PricePerPerson  currency.Money `json:"price_per_person"`
	TotalPrice      currency.Money `json:"total_price"`
	Rating          float64        `json:"rating"`
	Weekdays        []string       `json:"weekdays,omitempty"`
}

// HasTag matches case-insensitively, like the catalog interest filter.
func (a Activity) HasTag(tag string) bool {
	return slices.ContainsFunc(a.Tags, func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}

// AvailableOn reports whether the activity runs on d's weekday. An empty
// weekday list means it runs daily.
func (a Activity) AvailableOn(d Date) bool {
	if len(a.Weekdays) == 0 {
		return true
	}
	day := weekdayName(d.Weekday())
	for _, w := range a.Weekdays {
		if strings.EqualFold(w, day) {
			return true
		}
	}
	return false
}

func weekdayName(w time.Weekday) string {
	return strings.ToLower(w.String()[:3])
}

type DiningRecommendation struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Cuisine        []string       `json:"cuisine"`
	PriceRange     string         `json:"price_range"`
	PricePerPerson currency.Money `json:"price_per_person"`
	EstimatedCost  currency.Money `json:"estimated_cost"`
	Rating         float64        `json:"rating"`
}
