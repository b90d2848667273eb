// README: Nearby driver lookup over a mock roster; no real dispatch.
package driver

import (
	"errors"
	"math"

	"taxibook/internal/types"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

const DefaultRadiusKm = 5.0

type Service struct {
	roster []profile
}

func NewService() *Service {
	return &Service{roster: defaultRoster}
}

// Nearby places the roster around origin and returns the drivers within
// radiusKm, closest first. A non-positive radius uses DefaultRadiusKm.
func (s *Service) Nearby(origin types.Point, radiusKm float64) ([]Driver, error) {
	if !origin.Valid() || math.IsNaN(origin.Lat) || math.IsNaN(origin.Lng) {
		return nil, ErrInvalidCoordinates
	}
	if radiusKm <= 0 || math.IsNaN(radiusKm) {
		radiusKm = DefaultRadiusKm
	}

	out := make([]Driver, 0, len(s.roster))
	for _, p := range s.roster {
		lat := clamp(origin.Lat+p.dLat, -90, 90)
		lng := wrapLng(origin.Lng + p.dLng)
		dist := haversineKm(origin.Lat, origin.Lng, lat, lng)
		if dist > radiusKm {
			continue
		}
		out = append(out, Driver{
			ID:              p.id,
			Name:            p.name,
			Rating:          p.rating,
			ExperienceYears: p.years,
			Lat:             lat,
			Lng:             lng,
			DistanceKm:      math.Round(dist*100) / 100,
		})
	}
	sortByDistance(out, func(d Driver) float64 { return d.DistanceKm })
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func wrapLng(v float64) float64 {
	if v > 180 {
		return v - 360
	}
	if v < -180 {
		return v + 360
	}
	return v
}
