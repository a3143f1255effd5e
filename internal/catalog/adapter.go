package catalog

import (
	"context"
	"encoding/json"

	"github.com/dharmasatrya/tripplanner/internal/cache"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

// Adapter is the contract every catalog source implements. Search returns
// options already filtered by the ceiling and ranked. No inventory is an empty
// slice; an error means the source itself could not be reached.
type Adapter[T any] interface {
	Name() string
	Search(ctx context.Context, c Constraints) ([]T, error)
}

// Constraints describe one catalog query. For flights Start is the departure
// date; for lodging Start and End are check-in and check-out.
type Constraints struct {
	Category    models.Category    `json:"category"`
	Origin      models.Destination `json:"origin"`
	Destination models.Destination `json:"destination"`
	Start       models.Date        `json:"start"`
	End         models.Date        `json:"end"`
	PartySize   int                `json:"party_size"`
	Rooms       int                `json:"rooms"`
	Ceiling     currency.Money     `json:"ceiling"`
	Interests   []string           `json:"interests,omitempty"`
}

type Adapters struct {
	Destinations DestinationResolver
	Flights      Adapter[models.FlightOption]
	Lodging      Adapter[models.AccommodationOption]
	Activities   Adapter[models.Activity]
	Dining       Adapter[models.DiningRecommendation]
}

// NewSnapshotAdapters builds all adapters over one snapshot. A nil cache
// disables result caching.
func NewSnapshotAdapters(s *Snapshot, c cache.Cache) Adapters {
	a := Adapters{
		Destinations: s,
		Flights:      NewFlightAdapter(s),
		Lodging:      NewLodgingAdapter(s),
		Activities:   NewActivityAdapter(s),
		Dining:       NewDiningAdapter(s),
	}
	if c == nil {
		return a
	}

	a.Flights = WithCache(a.Flights, c, s.Version())
	a.Lodging = WithCache(a.Lodging, c, s.Version())
	a.Activities = WithCache(a.Activities, c, s.Version())
	a.Dining = WithCache(a.Dining, c, s.Version())
	return a
}

type cachedAdapter[T any] struct {
	next    Adapter[T]
	cache   cache.Cache
	version string
}

// WithCache serves repeated queries from c. Entries are keyed by the catalog
// version, so a request never reads results from a different snapshot.
func WithCache[T any](next Adapter[T], c cache.Cache, version string) Adapter[T] {
	return &cachedAdapter[T]{next: next, cache: c, version: version}
}

func (a *cachedAdapter[T]) Name() string {
	return a.next.Name()
}

func (a *cachedAdapter[T]) Search(ctx context.Context, c Constraints) ([]T, error) {
	key := cache.GenerateKey(a.next.Name(), a.version, c)

	if data, ok := a.cache.Get(ctx, key); ok {
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	items, err := a.next.Search(ctx, c)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		_ = a.cache.Set(ctx, key, data)
	}
	return items, nil
}

func unavailable(ctx context.Context, category models.Category) error {
	if err := ctx.Err(); err != nil {
		return models.NewCatalogUnavailableError(category, err)
	}
	return nil
}
