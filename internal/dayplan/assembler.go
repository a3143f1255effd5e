// Package dayplan distributes activities and dining across the days of a trip.
package dayplan

import (
	"fmt"
	"slices"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

const (
	MaxActivitiesPerDay = 3
	MaxDiningPerDay     = 2

	// Trips at least this long spend the first and last day travelling.
	minDaysForTransit = 3
)

// Input carries already ranked catalog results. Activities and Dining are
// consumed in the order given.
type Input struct {
	City       string
	Dates      []models.Date
	Interests  []string
	Activities []models.Activity
	Dining     []models.DiningRecommendation
	Ceiling    currency.Money
}

type Result struct {
	Days           []models.DayPlan
	ActivitiesCost currency.Money
	DiningCost     currency.Money
}

type assembler struct {
	in        Input
	days      []models.DayPlan
	active    []int
	remaining currency.Money
	used      map[string]bool
	tags      []string
}

// Assemble builds one DayPlan per date. Primary dining is reserved first, then
// activities are dealt out in rounds so every day gets its n-th activity
// before any day gets its n+1-th, then leftover headroom buys a second meal.
// Activity and dining spend together never exceed the ceiling.
func Assemble(in Input) Result {
	a := &assembler{
		in:        in,
		remaining: in.Ceiling,
		used:      make(map[string]bool),
		tags:      slices.Sorted(slices.Values(in.Interests)),
	}
	a.tags = slices.Compact(a.tags)

	a.layoutDays()
	a.reservePrimaryDining()
	a.assignActivities()
	a.addSecondaryDining()

	code := in.Ceiling.Currency()
	res := Result{
		Days:           a.days,
		ActivitiesCost: currency.Zero(code),
		DiningCost:     currency.Zero(code),
	}
	for i := range res.Days {
		d := &res.Days[i]
		d.ActivityCount = len(d.Activities)
		d.DiningCount = len(d.Dining)
		for _, act := range d.Activities {
			res.ActivitiesCost, _ = res.ActivitiesCost.Add(act.TotalPrice)
		}
		for _, r := range d.Dining {
			res.DiningCost, _ = res.DiningCost.Add(r.EstimatedCost)
		}
	}
	return res
}

func (a *assembler) layoutDays() {
	n := len(a.in.Dates)
	a.days = make([]models.DayPlan, n)

	for i, date := range a.in.Dates {
		transit := n >= minDaysForTransit && (i == 0 || i == n-1)
		day := models.DayPlan{
			Date:       date,
			DayNumber:  i + 1,
			Transit:    transit,
			Activities: []models.Activity{},
			Dining:     []models.DiningRecommendation{},
		}
		if transit {
			day.Notes = "Travel day. No activities planned."
		} else {
			day.Notes = fmt.Sprintf("Day %d of your %s adventure.", i+1, a.in.City)
			a.active = append(a.active, i)
		}
		a.days[i] = day
	}
}

func (a *assembler) fits(cost currency.Money) bool {
	return cost.LessOrEqual(a.remaining)
}

func (a *assembler) spend(cost currency.Money) {
	a.remaining, _ = a.remaining.Sub(cost)
}

// reservePrimaryDining gives activity day k restaurant k in ranked order,
// wrapping around, and moves on to the next one when it does not fit.
func (a *assembler) reservePrimaryDining() {
	n := len(a.in.Dining)
	if n == 0 {
		return
	}

	for k, idx := range a.active {
		for step := 0; step < n; step++ {
			r := a.in.Dining[(k+step)%n]
			if a.fits(r.EstimatedCost) {
				a.days[idx].Dining = append(a.days[idx].Dining, r)
				a.spend(r.EstimatedCost)
				break
			}
		}
	}
}

func (a *assembler) assignActivities() {
	slot := 0
	for round := 0; round < MaxActivitiesPerDay; round++ {
		placed := false
		for _, idx := range a.active {
			day := &a.days[idx]
			if act, ok := a.pickActivity(day.Date, slot); ok {
				day.Activities = append(day.Activities, act)
				a.used[act.ID] = true
				a.spend(act.TotalPrice)
				placed = true
			}
			slot++
		}
		if !placed {
			return
		}
	}
}

// pickActivity prefers the slot's tag, then the remaining tags in rotation.
func (a *assembler) pickActivity(date models.Date, slot int) (models.Activity, bool) {
	if len(a.tags) == 0 {
		return a.firstActivity(date, "")
	}

	for i := 0; i < len(a.tags); i++ {
		tag := a.tags[(slot+i)%len(a.tags)]
		if act, ok := a.firstActivity(date, tag); ok {
			return act, true
		}
	}
	return models.Activity{}, false
}

func (a *assembler) firstActivity(date models.Date, tag string) (models.Activity, bool) {
	for _, act := range a.in.Activities {
		if a.used[act.ID] || !act.AvailableOn(date) || !a.fits(act.TotalPrice) {
			continue
		}
		if tag != "" && !act.HasTag(tag) {
			continue
		}
		return act, true
	}
	return models.Activity{}, false
}

func (a *assembler) addSecondaryDining() {
	for _, idx := range a.active {
		day := &a.days[idx]
		if len(day.Dining) >= MaxDiningPerDay {
			continue
		}
		for _, r := range a.in.Dining {
			if onDay(day.Dining, r.ID) || !a.fits(r.EstimatedCost) {
				continue
			}
			day.Dining = append(day.Dining, r)
			a.spend(r.EstimatedCost)
			break
		}
	}
}

func onDay(dining []models.DiningRecommendation, id string) bool {
	for _, d := range dining {
		if d.ID == id {
			return true
		}
	}
	return false
}
