package catalog

import (
	"context"

	"github.com/dharmasatrya/tripplanner/internal/filter"
	"github.com/dharmasatrya/tripplanner/internal/models"
)

type ActivityAdapter struct {
	snap *Snapshot
}

func NewActivityAdapter(s *Snapshot) *ActivityAdapter {
	return &ActivityAdapter{snap: s}
}

func (a *ActivityAdapter) Name() string {
	return "snapshot-activities"
}

// Search returns activities tagged with any requested interest. Weekday
// availability is left to the caller, which knows which day each slot falls on.
func (a *ActivityAdapter) Search(ctx context.Context, c Constraints) ([]models.Activity, error) {
	if err := unavailable(ctx, c.Category); err != nil {
		return nil, err
	}

	party := int64(max(c.PartySize, 1))

	var results []models.Activity
	for _, r := range a.snap.activities[normalizeName(c.Destination.City)] {
		if !filter.MatchesInterests(r.Tags, c.Interests) {
			continue
		}
		results = append(results, models.Activity{
			ID:              r.ID,
			Name:            r.Name,
			Category:        r.Category,
			Tags:            r.Tags,
			Description:     r.Description,
			StartTime:       r.StartTime,
			DurationMinutes: r.DurationMinutes,
			PricePerPerson:  r.price,
			TotalPrice:      r.price.Mul(party),
			Rating:          r.Rating,
			Weekdays:        r.Weekdays,
		})
	}

	return filter.Activities(results, c.Ceiling), nil
}
