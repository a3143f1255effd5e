package catalog

import (
	"context"

	"github.com/dharmasatrya/tripplanner/internal/filter"
	"github.com/dharmasatrya/tripplanner/internal/models"
)

type DiningAdapter struct {
	snap *Snapshot
}

func NewDiningAdapter(s *Snapshot) *DiningAdapter {
	return &DiningAdapter{snap: s}
}

func (a *DiningAdapter) Name() string {
	return "snapshot-dining"
}

func (a *DiningAdapter) Search(ctx context.Context, c Constraints) ([]models.DiningRecommendation, error) {
	if err := unavailable(ctx, c.Category); err != nil {
		return nil, err
	}

	party := int64(max(c.PartySize, 1))

	var results []models.DiningRecommendation
	for _, r := range a.snap.restaurants[normalizeName(c.Destination.City)] {
		results = append(results, models.DiningRecommendation{
			ID:             r.ID,
			Name:           r.Name,
			Cuisine:        r.Cuisine,
			PriceRange:     r.PriceRange,
			PricePerPerson: r.price,
			EstimatedCost:  r.price.Mul(party),
			Rating:         r.Rating,
		})
	}

	return filter.Dining(results, c.Ceiling), nil
}
