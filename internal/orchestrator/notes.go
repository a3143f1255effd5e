package orchestrator

import (
	"fmt"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

var styleAdjectives = map[models.TravelStyle]string{
	models.StyleBudget:   "budget-friendly",
	models.StyleStandard: "balanced",
	models.StyleLuxury:   "luxurious",
}

const luxuryNote = "We've prioritized premium experiences and luxury accommodations to ensure an exceptional journey."

func buildNotes(req models.TripRequest, dest models.Destination, omissions []models.Omission, empty []models.Category) string {
	var b strings.Builder

	fmt.Fprintf(&b, "This %s %d-day %s itinerary ", styleAdjectives[req.Style], req.DurationDays(), dest.City)
	if len(req.Interests) == 0 {
		b.WriteString("covers the city's highlights.")
	} else {
		fmt.Fprintf(&b, "focuses on %s as requested.", joinList(req.Interests))
	}

	if req.Style == models.StyleLuxury {
		b.WriteString(" " + luxuryNote)
	}

	for _, o := range omissions {
		b.WriteString(" " + o.Message + ".")
	}
	for _, c := range empty {
		fmt.Fprintf(&b, " No %s found within budget.", strings.ToLower(c.Label()))
	}

	return b.String()
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func omissionMessage(category models.Category) string {
	switch category {
	case models.CategoryAccommodation:
		return "Accommodation unavailable for selected dates"
	case models.CategoryOutboundFlight, models.CategoryReturnFlight:
		return category.Label() + " unavailable for the selected route"
	default:
		return category.Label() + " unavailable for this destination"
	}
}
