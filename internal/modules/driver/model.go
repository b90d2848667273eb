// README: Driver roster entries shown to a rider before booking.
package driver

import "taxibook/internal/types"

type Driver struct {
	ID              types.ID `json:"id"`
	Name            string   `json:"name"`
	Rating          float64  `json:"rating"`
	ExperienceYears int      `json:"experienceYears"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	// DistanceKm is measured from the queried origin.
	DistanceKm float64 `json:"distanceKm"`
}

// profile is a roster entry placed at a fixed offset from the origin.
type profile struct {
	id     types.ID
	name   string
	rating float64
	years  int
	dLat   float64
	dLng   float64
}

var defaultRoster = []profile{
	{id: "drv-rajesh", name: "Rajesh K.", rating: 4.8, years: 5, dLat: 0.012, dLng: -0.008},
	{id: "drv-amit", name: "Amit S.", rating: 4.9, years: 7, dLat: -0.004, dLng: 0.006},
	{id: "drv-pradeep", name: "Pradeep M.", rating: 4.7, years: 4, dLat: 0.020, dLng: 0.015},
}
