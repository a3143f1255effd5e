package models

// Category identifies one bookable section of an itinerary.
type Category string

const (
	CategoryOutboundFlight Category = "outbound_flight"
	CategoryReturnFlight   Category = "return_flight"
	CategoryAccommodation  Category = "accommodation"
	CategoryActivities     Category = "activities"
	CategoryDining         Category = "dining"
)

// CanonicalOrder is the order in which sections are populated and referenced,
// independent of the order catalog queries complete in.
var CanonicalOrder = []Category{
	CategoryOutboundFlight,
	CategoryReturnFlight,
	CategoryAccommodation,
	CategoryActivities,
	CategoryDining,
}

// ParseCategory maps a configuration name such as "accommodation" to its
// category.
func ParseCategory(name string) (Category, bool) {
	for _, c := range CanonicalOrder {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// ReferencePrefix is the two-letter booking reference prefix for the category.
func (c Category) ReferencePrefix() string {
	switch c {
	case CategoryOutboundFlight:
		return "OF"
	case CategoryReturnFlight:
		return "RF"
	case CategoryAccommodation:
		return "AC"
	case CategoryActivities:
		return "AT"
	case CategoryDining:
		return "DN"
	default:
		return "XX"
	}
}

// Label is the human-readable section name used in notes.
func (c Category) Label() string {
	switch c {
	case CategoryOutboundFlight:
		return "Outbound flight"
	case CategoryReturnFlight:
		return "Return flight"
	case CategoryAccommodation:
		return "Accommodation"
	case CategoryActivities:
		return "Activities"
	case CategoryDining:
		return "Dining recommendations"
	default:
		return string(c)
	}
}
