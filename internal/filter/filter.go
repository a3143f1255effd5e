package filter

import (
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/ranking"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

// Apply drops options priced over the ceiling and ranks the rest. The result is
// never nil. An untagged ceiling means no limit.
func Apply[T any](items []T, ceiling currency.Money, price func(T) currency.Money, key func(T) ranking.Key) []T {
	filtered := applyCeiling(items, ceiling, price)
	ranking.Sort(filtered, key)
	return filtered
}

func applyCeiling[T any](items []T, ceiling currency.Money, price func(T) currency.Money) []T {
	result := make([]T, 0, len(items))

	for _, it := range items {
		if WithinCeiling(price(it), ceiling) {
			result = append(result, it)
		}
	}

	return result
}

func WithinCeiling(price, ceiling currency.Money) bool {
	if ceiling.Currency() == "" {
		return true
	}
	return price.LessOrEqual(ceiling)
}

// MatchesInterests reports whether any tag is among the interests. No
// interests matches everything.
func MatchesInterests(tags, interests []string) bool {
	if len(interests) == 0 {
		return true
	}

	for _, interest := range interests {
		for _, tag := range tags {
			if strings.EqualFold(tag, interest) {
				return true
			}
		}
	}
	return false
}

func Flights(flights []models.FlightOption, ceiling currency.Money) []models.FlightOption {
	return Apply(flights, ceiling, func(f models.FlightOption) currency.Money { return f.Price }, ranking.FlightKey)
}

func Accommodations(options []models.AccommodationOption, ceiling currency.Money) []models.AccommodationOption {
	return Apply(options, ceiling, func(a models.AccommodationOption) currency.Money { return a.TotalPrice }, ranking.AccommodationKey)
}

func Activities(activities []models.Activity, ceiling currency.Money) []models.Activity {
	return Apply(activities, ceiling, func(a models.Activity) currency.Money { return a.TotalPrice }, ranking.ActivityKey)
}

func Dining(options []models.DiningRecommendation, ceiling currency.Money) []models.DiningRecommendation {
	return Apply(options, ceiling, func(d models.DiningRecommendation) currency.Money { return d.EstimatedCost }, ranking.DiningKey)
}
