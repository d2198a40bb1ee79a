package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// City represents a simplified place result used to pre-fill selector widgets.
type City struct {
	Name    string
	Address string
	PlaceID string
	Rating  float32
}

// CityService handles interactions with the Google Places API to suggest
// destination cities and airports for widget data.
type CityService struct {
	client *maps.Client
}

// NewCityService creates a CityService with the given API key.
func NewCityService(apiKey string) (*CityService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &CityService{client: client}, nil
}

// SuggestCities searches for cities matching the free-text query. language is
// a BCP-47 tag ("en", "fr") so labels match the conversation language.
// Returns at most limit results.
func (s *CityService) SuggestCities(ctx context.Context, query, language string, limit int) ([]City, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	// The Places API has no searchable "city" type, so shape the query
	// string instead and let text search rank localities first.
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    fmt.Sprintf("cities in %s", query),
		Language: language,
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	cities := make([]City, 0, limit)
	for _, r := range resp.Results {
		cities = append(cities, City{
			Name:    r.Name,
			Address: r.FormattedAddress,
			PlaceID: r.PlaceID,
			Rating:  r.Rating,
		})
		if len(cities) >= limit {
			break
		}
	}
	return cities, nil
}

// SuggestAirports searches for airports serving the given city, used to
// pre-fill the airport confirmation widget.
func (s *CityService) SuggestAirports(ctx context.Context, city, language string, limit int) ([]City, error) {
	if strings.TrimSpace(city) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}

	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    fmt.Sprintf("airports near %s", city),
		Language: language,
		Type:     maps.PlaceTypeAirport,
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	airports := make([]City, 0, limit)
	for _, r := range resp.Results {
		airports = append(airports, City{
			Name:    r.Name,
			Address: r.FormattedAddress,
			PlaceID: r.PlaceID,
			Rating:  r.Rating,
		})
		if len(airports) >= limit {
			break
		}
	}
	return airports, nil
}
