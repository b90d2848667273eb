// README: Places handlers; reverse geocoding and pickup autocomplete.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taxibook/internal/maps"
	"taxibook/internal/pkg/logger"
)

const maxAutocompleteInput = 200

type PlacesHandler struct {
	geocoder maps.Geocoder
}

func NewPlacesHandler(g maps.Geocoder) *PlacesHandler {
	if g == nil {
		g = maps.Disabled{}
	}
	return &PlacesHandler{geocoder: g}
}

func (h *PlacesHandler) Reverse(c *gin.Context) {
	p, ok := parsePoint(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "Invalid coordinates")
		return
	}
	addr, err := h.geocoder.ReverseGeocode(c.Request.Context(), p)
	if err != nil {
		writePlacesError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"address": addr, "lat": p.Lat, "lng": p.Lng})
}

func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	input := strings.TrimSpace(c.Query("input"))
	if input == "" || len(input) > maxAutocompleteInput {
		writeError(c, http.StatusBadRequest, "input is required")
		return
	}
	places, err := h.geocoder.Autocomplete(c.Request.Context(), input)
	if err != nil {
		writePlacesError(c, err)
		return
	}
	if places == nil {
		places = []maps.Place{}
	}
	writeJSON(c, http.StatusOK, gin.H{"places": places})
}

func writePlacesError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, maps.ErrDisabled):
		writeError(c, http.StatusServiceUnavailable, "places lookup is not configured")
	case errors.Is(err, maps.ErrNoResult):
		writeError(c, http.StatusNotFound, "no address found")
	default:
		logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("places lookup failed")
		writeError(c, http.StatusBadGateway, "places lookup failed")
	}
}
