// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"taxibook/internal/modules/booking"
	"taxibook/internal/pkg/logger"
	"taxibook/internal/types"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string           `json:"message"`
	Booking *booking.Booking `json:"booking,omitempty"`
}

// isValidID accepts the BK<millis> ids the service assigns, plus any short
// alphanumeric id already present in an imported file.
func isValidID(v string) bool {
	if v == "" || len(v) > 32 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeBookingError(c *gin.Context, err error) {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, booking.ErrNotFound):
		writeError(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, booking.ErrInvalidTransition):
		writeError(c, http.StatusConflict, err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("booking operation failed")
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// parsePoint reads lat and lng query parameters.
func parsePoint(c *gin.Context) (types.Point, bool) {
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(c.Query("lat")), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(c.Query("lng")), 64)
	if err1 != nil || err2 != nil {
		return types.Point{}, false
	}
	p := types.Point{Lat: lat, Lng: lng}
	return p, p.Valid()
}
