// README: Places lookup (reverse geocoding, autocomplete) over the Google Maps client.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"taxibook/internal/types"
)

var (
	// ErrDisabled is returned when no API key was configured.
	ErrDisabled = errors.New("places lookup disabled")
	ErrNoResult = errors.New("no result")
	// ErrUpstream wraps failures reported by the Maps API.
	ErrUpstream = errors.New("maps api error")
)

// Place is a single autocomplete suggestion.
type Place struct {
	PlaceID     string `json:"placeId"`
	Description string `json:"description"`
	MainText    string `json:"mainText,omitempty"`
	SecondText  string `json:"secondaryText,omitempty"`
}

// Geocoder turns coordinates into a pickup address and partial input into
// suggestions. Booking never depends on it.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, p types.Point) (string, error)
	Autocomplete(ctx context.Context, input string) ([]Place, error)
}

// mapsAPI is the subset of *maps.Client used here.
type mapsAPI interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
}

// GoogleGeocoder handles interactions with the Google Maps Geocoding and Places APIs.
type GoogleGeocoder struct {
	client   mapsAPI
	region   string
	language string
	limit    int
}

// NewGoogleGeocoder creates a geocoder biased to India.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, region: "IN", language: "en", limit: 5}, nil
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, p types.Point) (string, error) {
	r := &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Region:   g.region,
		Language: g.language,
	}
	results, err := g.client.ReverseGeocode(ctx, r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	addr := pickAddress(results)
	if addr == "" {
		return "", ErrNoResult
	}
	return addr, nil
}

func (g *GoogleGeocoder) Autocomplete(ctx context.Context, input string) ([]Place, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	r := &maps.PlaceAutocompleteRequest{
		Input:      input,
		Language:   g.language,
		Components: map[maps.Component][]string{maps.ComponentCountry: {strings.ToLower(g.region)}},
	}
	resp, err := g.client.PlaceAutocomplete(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return toPlaces(resp.Predictions, g.limit), nil
}

// pickAddress prefers a street-level result over broad localities.
func pickAddress(results []maps.GeocodingResult) string {
	for _, r := range results {
		for _, t := range r.Types {
			if t == "street_address" || t == "premise" || t == "route" {
				return r.FormattedAddress
			}
		}
	}
	if len(results) > 0 {
		return results[0].FormattedAddress
	}
	return ""
}

func toPlaces(preds []maps.AutocompletePrediction, limit int) []Place {
	out := make([]Place, 0, len(preds))
	for _, p := range preds {
		if p.PlaceID == "" {
			continue
		}
		out = append(out, Place{
			PlaceID:     p.PlaceID,
			Description: p.Description,
			MainText:    p.StructuredFormatting.MainText,
			SecondText:  p.StructuredFormatting.SecondaryText,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Disabled stands in when no API key is configured.
type Disabled struct{}

func (Disabled) ReverseGeocode(context.Context, types.Point) (string, error) { return "", ErrDisabled }
func (Disabled) Autocomplete(context.Context, string) ([]Place, error) { return nil, ErrDisabled }
