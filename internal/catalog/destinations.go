package catalog

import (
	"context"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

// DestinationResolver maps free-text destination names to catalog locations.
type DestinationResolver interface {
	Resolve(ctx context.Context, query string) (models.Destination, error)
	List(ctx context.Context) ([]models.Destination, error)
}

// Resolve accepts a city, an airport code or a known alias, case-insensitively.
// "City, Country" falls back to the city when the full string is unknown.
func (s *Snapshot) Resolve(ctx context.Context, query string) (models.Destination, error) {
	if err := ctx.Err(); err != nil {
		return models.Destination{}, err
	}

	key := normalizeName(query)
	if idx, ok := s.aliases[key]; ok {
		return s.destinations[idx], nil
	}

	if city, _, found := strings.Cut(key, ","); found {
		if idx, ok := s.aliases[strings.TrimSpace(city)]; ok {
			return s.destinations[idx], nil
		}
	}

	return models.Destination{}, &models.UnknownDestinationError{Destination: query}
}

func (s *Snapshot) List(ctx context.Context) ([]models.Destination, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Destination, len(s.destinations))
	copy(out, s.destinations)
	return out, nil
}
