package catalog

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/filter"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/timezone"
)

type FlightAdapter struct {
	snap *Snapshot
}

func NewFlightAdapter(s *Snapshot) *FlightAdapter {
	return &FlightAdapter{snap: s}
}

func (a *FlightAdapter) Name() string {
	return "snapshot-flights"
}

// Search returns one option per scheduled flight and cabin on the departure
// date, priced for the whole party.
func (a *FlightAdapter) Search(ctx context.Context, c Constraints) ([]models.FlightOption, error) {
	if err := unavailable(ctx, c.Category); err != nil {
		return nil, err
	}

	party := max(c.PartySize, 1)
	date := c.Start.Time()

	var results []models.FlightOption
	for _, f := range a.snap.flights {
		if !strings.EqualFold(f.Origin, c.Origin.Airport) ||
			!strings.EqualFold(f.Destination, c.Destination.Airport) {
			continue
		}
		if len(f.Weekdays) > 0 && !slices.Contains(f.Weekdays, strings.ToLower(date.Weekday().String()[:3])) {
			continue
		}

		depTime, err := timezone.LocalTime(date.Year(), date.Month(), date.Day(), f.Departs, f.Origin)
		if err != nil {
			continue
		}
		arrTime := timezone.ConvertToTimezone(depTime.Add(time.Duration(f.DurationMinutes)*time.Minute), f.Destination)

		for cabin, fare := range f.fares {
			results = append(results, models.FlightOption{
				ID:               f.ID + "-" + c.Start.String() + "-" + string(cabin),
				Carrier:          f.Carrier,
				CarrierCode:      f.CarrierCode,
				FlightNumber:     f.FlightNumber,
				Origin:           f.Origin,
				Destination:      f.Destination,
				DepartureTime:    depTime,
				ArrivalTime:      arrTime,
				DurationMinutes:  f.DurationMinutes,
				Stops:            f.Stops,
				CabinClass:       cabin,
				CarrierRating:    f.CarrierRating,
				FarePerPassenger: fare,
				Passengers:       party,
				Price:            fare.Mul(int64(party)),
			})
		}
	}

	return filter.Flights(results, c.Ceiling), nil
}
