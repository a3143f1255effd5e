package models

type PlanMetadata struct {
	PlanningTimeMs    int64      `json:"planning_time_ms"`
	OmittedCategories []Category `json:"omitted_categories,omitempty"`
	Stored            bool       `json:"stored"`
}

type PlanResponse struct {
	Status    PlanStatus   `json:"status"`
	Itinerary *Itinerary   `json:"itinerary"`
	Metadata  PlanMetadata `json:"metadata"`
}

type DestinationsResponse struct {
	Destinations []Destination `json:"destinations"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
