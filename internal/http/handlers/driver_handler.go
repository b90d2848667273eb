// README: Nearby driver handler for the location widget.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxibook/internal/modules/driver"
)

type DriverHandler struct {
	driver *driver.Service
}

func NewDriverHandler(svc *driver.Service) *DriverHandler {
	return &DriverHandler{driver: svc}
}

func (h *DriverHandler) Nearby(c *gin.Context) {
	p, ok := parsePoint(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "Invalid coordinates")
		return
	}
	radius, _ := strconv.ParseFloat(c.Query("radiusKm"), 64)
	drivers, err := h.driver.Nearby(p, radius)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"drivers": drivers})
}
