package catalog

import (
	"context"

	"github.com/dharmasatrya/tripplanner/internal/filter"
	"github.com/dharmasatrya/tripplanner/internal/models"
)

type LodgingAdapter struct {
	snap *Snapshot
}

func NewLodgingAdapter(s *Snapshot) *LodgingAdapter {
	return &LodgingAdapter{snap: s}
}

func (a *LodgingAdapter) Name() string {
	return "snapshot-lodging"
}

// Search prices each property as nightly rate x nights x rooms.
func (a *LodgingAdapter) Search(ctx context.Context, c Constraints) ([]models.AccommodationOption, error) {
	if err := unavailable(ctx, c.Category); err != nil {
		return nil, err
	}

	nights := c.Start.DaysUntil(c.End)
	if nights <= 0 {
		return []models.AccommodationOption{}, nil
	}
	rooms := max(c.Rooms, 1)

	var results []models.AccommodationOption
	for _, h := range a.snap.hotels[normalizeName(c.Destination.City)] {
		results = append(results, models.AccommodationOption{
			ID:           h.ID,
			Name:         h.Name,
			PropertyType: h.PropertyType,
			RoomType:     h.RoomType,
			Rating:       h.Stars,
			CheckIn:      c.Start,
			CheckOut:     c.End,
			NightlyPrice: h.nightly,
			Rooms:        rooms,
			Nights:       nights,
			TotalPrice:   h.nightly.Mul(int64(nights * rooms)),
			Amenities:    h.Amenities,
		})
	}

	return filter.Accommodations(results, c.Ceiling), nil
}
