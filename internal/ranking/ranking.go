// Package ranking defines the single total order used for every catalog
// result: higher quality first, then cheaper, then name, then id.
package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

type Key struct {
	Quality float64
	Price   int64
	Name    string
	ID      string
}

func Compare(a, b Key) int {
	if a.Quality != b.Quality {
		if a.Quality > b.Quality {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.Price, b.Price); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Sort orders items in place by their keys.
func Sort[T any](items []T, key func(T) Key) {
	slices.SortStableFunc(items, func(a, b T) int {
		return Compare(key(a), key(b))
	})
}

func FlightKey(f models.FlightOption) Key {
	return Key{
		Quality: f.Quality(),
		Price:   f.Price.Minor(),
		Name:    f.Carrier + " " + f.FlightNumber,
		ID:      f.ID,
	}
}

func AccommodationKey(a models.AccommodationOption) Key {
	return Key{
		Quality: a.Rating,
		Price:   a.TotalPrice.Minor(),
		Name:    a.Name,
		ID:      a.ID,
	}
}

func ActivityKey(a models.Activity) Key {
	return Key{
		Quality: a.Rating,
		Price:   a.TotalPrice.Minor(),
		Name:    a.Name,
		ID:      a.ID,
	}
}

func DiningKey(d models.DiningRecommendation) Key {
	return Key{
		Quality: d.Rating,
		Price:   d.EstimatedCost.Minor(),
		Name:    d.Name,
		ID:      d.ID,
	}
}
