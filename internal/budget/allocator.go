// Package budget splits a trip budget into per-category spending ceilings.
package budget

import (
	"fmt"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

// Shares are whole percentages of the total budget. Whatever is left after
// the three categories is held back as reserve.
type Shares struct {
	Flights             int64 `yaml:"flights" json:"flights"`
	Accommodation       int64 `yaml:"accommodation" json:"accommodation"`
	ActivitiesAndDining int64 `yaml:"activities_and_dining" json:"activities_and_dining"`
}

func (s Shares) Total() int64 {
	return s.Flights + s.Accommodation + s.ActivitiesAndDining
}

func (s Shares) validate() error {
	if s.Flights < 0 || s.Accommodation < 0 || s.ActivitiesAndDining < 0 {
		return fmt.Errorf("shares must not be negative")
	}
	if s.Total() > 100 {
		return fmt.Errorf("shares add up to %d%%", s.Total())
	}
	return nil
}

// Policy maps each travel style to its shares.
type Policy map[models.TravelStyle]Shares

// DefaultPolicy: luxury leans into accommodation and experiences, budget
// keeps transport spend low and holds more in reserve.
func DefaultPolicy() Policy {
	return Policy{
		models.StyleBudget:   {Flights: 30, Accommodation: 35, ActivitiesAndDining: 25},
		models.StyleStandard: {Flights: 35, Accommodation: 35, ActivitiesAndDining: 25},
		models.StyleLuxury:   {Flights: 30, Accommodation: 35, ActivitiesAndDining: 30},
	}
}

// Merge returns a copy of p with the given overrides applied.
func (p Policy) Merge(overrides map[string]Shares) Policy {
	out := make(Policy, len(p)+len(overrides))
	for style, shares := range p {
		out[style] = shares
	}
	for style, shares := range overrides {
		out[models.TravelStyle(style)] = shares
	}
	return out
}

type Ceilings struct {
	Flights             currency.Money `json:"flights"`
	Accommodation       currency.Money `json:"accommodation"`
	ActivitiesAndDining currency.Money `json:"activities_and_dining"`
	Reserve             currency.Money `json:"reserve"`
}

// PerFlight splits the flight ceiling evenly between outbound and return.
func (c Ceilings) PerFlight() currency.Money {
	return currency.New(c.Flights.Minor()/2, c.Flights.Currency())
}

type Allocator struct {
	policy   Policy
	currency string
}

// NewAllocator validates every policy entry up front so a bad config fails at startup.
func NewAllocator(policy Policy, catalogCurrency string) (*Allocator, error) {
	for style, shares := range policy {
		if err := shares.validate(); err != nil {
			return nil, fmt.Errorf("budget policy %q: %w", style, err)
		}
	}
	return &Allocator{policy: policy, currency: catalogCurrency}, nil
}

func (a *Allocator) Policy() Policy {
	return a.policy
}

// Allocate computes ceilings for a trip of durationDays calendar days.
func (a *Allocator) Allocate(total currency.Money, style models.TravelStyle, durationDays int) (Ceilings, error) {
	if !total.IsPositive() {
		return Ceilings{}, &models.InvalidBudgetError{Reason: "budget must be greater than zero"}
	}
	if a.currency != "" && total.Currency() != a.currency {
		return Ceilings{}, &models.InvalidBudgetError{
			Reason: fmt.Sprintf("currency %q is not supported, use %s", total.Currency(), a.currency),
		}
	}
	if durationDays <= 0 {
		return Ceilings{}, &models.InvalidBudgetError{Reason: "trip duration must be at least one day"}
	}

	shares, ok := a.policy[style]
	if !ok {
		return Ceilings{}, &models.InvalidBudgetError{Reason: fmt.Sprintf("no budget policy for style %q", style)}
	}
	if err := shares.validate(); err != nil {
		return Ceilings{}, &models.InvalidBudgetError{Reason: err.Error()}
	}

	// A same-day trip has no hotel nights to pay for.
	if durationDays == 1 {
		shares.ActivitiesAndDining += shares.Accommodation
		shares.Accommodation = 0
	}

	c := Ceilings{
		Flights:             total.Percent(shares.Flights),
		Accommodation:       total.Percent(shares.Accommodation),
		ActivitiesAndDining: total.Percent(shares.ActivitiesAndDining),
	}

	allocated, err := currency.Sum(total.Currency(), c.Flights, c.Accommodation, c.ActivitiesAndDining)
	if err != nil {
		return Ceilings{}, err
	}
	if c.Reserve, err = total.Sub(allocated); err != nil {
		return Ceilings{}, err
	}

	return c, nil
}
