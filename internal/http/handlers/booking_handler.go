// README: Booking handlers for create/list/get/update/delete/stats.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxibook/internal/modules/booking"
	"taxibook/internal/types"
)

type BookingHandler struct {
	booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{booking: svc}
}

type statsResponse struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Confirmed     int     `json:"confirmed"`
	Completed     int     `json:"completed"`
	Cancelled     int     `json:"cancelled"`
	TodayBookings int     `json:"todayBookings"`
	TodayRevenue  float64 `json:"todayRevenue"`
	// TodayRevenueDisplay is TodayRevenue formatted for the admin panel.
	TodayRevenueDisplay string `json:"todayRevenueDisplay"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var d booking.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	b, err := h.booking.Create(c.Request.Context(), d)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, messageResponse{Message: "Booking saved successfully", Booking: b})
}

func (h *BookingHandler) List(c *gin.Context) {
	list, err := h.booking.List(c.Request.Context())
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, list)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	b, err := h.booking.Get(c.Request.Context(), id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}

func (h *BookingHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	var p booking.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	b, err := h.booking.Update(c.Request.Context(), id, p)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, messageResponse{Message: "Booking updated successfully", Booking: b})
}

func (h *BookingHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err := h.booking.Delete(c.Request.Context(), id); err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, messageResponse{Message: "Booking deleted successfully"})
}

func (h *BookingHandler) Stats(c *gin.Context) {
	st, err := h.booking.Stats(c.Request.Context())
	if err != nil {
		writeBookingError(c, err)
		return
	}
	revenue := types.Money{Amount: st.TodayRevenue, Currency: types.CurrencyINR}
	writeJSON(c, http.StatusOK, statsResponse{
		Total:               st.Total,
		Pending:             st.ByStatus[booking.StatusPending],
		Confirmed:           st.ByStatus[booking.StatusConfirmed],
		Completed:           st.ByStatus[booking.StatusCompleted],
		Cancelled:           st.ByStatus[booking.StatusCancelled],
		TodayBookings:       st.TodayBookings,
		TodayRevenue:        revenue.Rupees(),
		TodayRevenueDisplay: revenue.String(),
	})
}
