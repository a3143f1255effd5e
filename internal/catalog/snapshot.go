// Package catalog provides the read-only inventory the planner queries:
// flights, lodging, activities and dining, plus destination resolution.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/catalog/data"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/timezone"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

type catalogFile struct {
	Version      string              `json:"version"`
	Currency     string              `json:"currency"`
	Destinations []destinationRecord `json:"destinations"`
	Flights      []flightRecord      `json:"flights"`
	Hotels       []hotelRecord       `json:"hotels"`
	Activities   []activityRecord    `json:"activities"`
	Restaurants  []restaurantRecord  `json:"restaurants"`
}

type destinationRecord struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Region  string   `json:"region"`
	Airport string   `json:"airport"`
	Aliases []string `json:"aliases"`
}

type flightRecord struct {
	ID              string            `json:"id"`
	Carrier         string            `json:"carrier"`
	CarrierCode     string            `json:"carrier_code"`
	FlightNumber    string            `json:"flight_number"`
	Origin          string            `json:"origin"`
	Destination     string            `json:"destination"`
	Departs         string            `json:"departs"`
	DurationMinutes int               `json:"duration_minutes"`
	Stops           int               `json:"stops"`
	CarrierRating   float64           `json:"carrier_rating"`
	Fares           map[string]string `json:"fares"`
	Weekdays        []string          `json:"weekdays,omitempty"`

	fares map[models.CabinClass]currency.Money
}

type hotelRecord struct {
	ID           string   `json:"id"`
	City         string   `json:"city"`
	Name         string   `json:"name"`
	PropertyType string   `json:"property_type"`
	Stars        float64  `json:"stars"`
	RoomType     string   `json:"room_type"`
	NightlyRate  string   `json:"nightly_rate"`
	Amenities    []string `json:"amenities"`

	nightly currency.Money
}

type activityRecord struct {
	ID              string   `json:"id"`
	City            string   `json:"city"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	Description     string   `json:"description"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	PricePerPerson  string   `json:"price_per_person"`
	Rating          float64  `json:"rating"`
	Weekdays        []string `json:"weekdays"`

	price currency.Money
}

type restaurantRecord struct {
	ID             string   `json:"id"`
	City           string   `json:"city"`
	Name           string   `json:"name"`
	Cuisine        []string `json:"cuisine"`
	PriceRange     string   `json:"price_range"`
	PricePerPerson string   `json:"price_per_person"`
	Rating         float64  `json:"rating"`

	price currency.Money
}

// Snapshot is an immutable view of the catalog. Every adapter built on the
// same snapshot sees the same inventory for the life of the process.
type Snapshot struct {
	version      string
	currency     string
	destinations []models.Destination
	aliases      map[string]int
	flights      []flightRecord
	hotels       map[string][]hotelRecord
	activities   map[string][]activityRecord
	restaurants  map[string][]restaurantRecord
}

// LoadEmbedded loads the catalog compiled into the binary.
func LoadEmbedded() (*Snapshot, error) {
	return Load(data.Catalog)
}

func Load(raw []byte) (*Snapshot, error) {
	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if file.Currency == "" {
		return nil, fmt.Errorf("catalog currency is required")
	}

	sum := sha256.Sum256(raw)
	s := &Snapshot{
		version:     file.Version + "+" + hex.EncodeToString(sum[:4]),
		currency:    strings.ToUpper(file.Currency),
		aliases:     make(map[string]int),
		hotels:      make(map[string][]hotelRecord),
		activities:  make(map[string][]activityRecord),
		restaurants: make(map[string][]restaurantRecord),
	}

	for _, d := range file.Destinations {
		airport := strings.ToUpper(d.Airport)
		s.destinations = append(s.destinations, models.Destination{
			City:     d.City,
			Country:  d.Country,
			Region:   d.Region,
			Airport:  airport,
			Timezone: timezone.GetTimezoneByAirport(airport),
		})
		idx := len(s.destinations) - 1
		for _, name := range append([]string{d.City, airport}, d.Aliases...) {
			s.aliases[normalizeName(name)] = idx
		}
	}

	for _, f := range file.Flights {
		f.fares = make(map[models.CabinClass]currency.Money, len(f.Fares))
		for cabin, fare := range f.Fares {
			m, err := currency.Parse(fare, s.currency)
			if err != nil {
				return nil, fmt.Errorf("flight %s %s fare: %w", f.ID, cabin, err)
			}
			f.fares[models.CabinClass(cabin)] = m
		}
		f.Origin = strings.ToUpper(f.Origin)
		f.Destination = strings.ToUpper(f.Destination)
		s.flights = append(s.flights, f)
	}

	for _, h := range file.Hotels {
		m, err := currency.Parse(h.NightlyRate, s.currency)
		if err != nil {
			return nil, fmt.Errorf("hotel %s rate: %w", h.ID, err)
		}
		h.nightly = m
		key := normalizeName(h.City)
		s.hotels[key] = append(s.hotels[key], h)
	}

	for _, a := range file.Activities {
		m, err := currency.Parse(a.PricePerPerson, s.currency)
		if err != nil {
			return nil, fmt.Errorf("activity %s price: %w", a.ID, err)
		}
		a.price = m
		key := normalizeName(a.City)
		s.activities[key] = append(s.activities[key], a)
	}

	for _, r := range file.Restaurants {
		m, err := currency.Parse(r.PricePerPerson, s.currency)
		if err != nil {
			return nil, fmt.Errorf("restaurant %s price: %w", r.ID, err)
		}
		r.price = m
		key := normalizeName(r.City)
		s.restaurants[key] = append(s.restaurants[key], r)
	}

	return s, nil
}

// Version identifies the catalog content; it changes whenever the data does.
func (s *Snapshot) Version() string {
	return s.version
}

func (s *Snapshot) Currency() string {
	return s.currency
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
