// README: Fare preview handlers backing the booking form.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxibook/internal/modules/pricing"
)

type FareHandler struct {
	pricing *pricing.Service
}

func NewFareHandler(svc *pricing.Service) *FareHandler {
	return &FareHandler{pricing: svc}
}

type quoteResponse struct {
	ServiceType     string  `json:"serviceType"`
	Hours           float64 `json:"hours"`
	TotalFare       float64 `json:"totalFare"`
	EstimatedFare   string  `json:"estimatedFare"`
	RateDescription string  `json:"rateDescription"`
}

type rateResponse struct {
	ServiceType    string  `json:"serviceType"`
	IncludedHours  float64 `json:"includedHours"`
	BaseFare       float64 `json:"baseFare"`
	OveragePerHour float64 `json:"overagePerHour"`
	Description    string  `json:"description"`
}

// Quote never fails: an unknown service type quotes ₹0 with no description.
func (h *FareHandler) Quote(c *gin.Context) {
	st := c.Query("serviceType")
	if st == "" {
		st = c.Query("service")
	}
	q := h.pricing.QuoteInput(st, c.Query("hours"))
	writeJSON(c, http.StatusOK, quoteResponse{
		ServiceType:     string(q.ServiceType),
		Hours:           q.Hours.Float(),
		TotalFare:       q.Total.Rupees(),
		EstimatedFare:   q.Total.String(),
		RateDescription: q.RateDescription,
	})
}

func (h *FareHandler) Rates(c *gin.Context) {
	rates := h.pricing.Rates()
	out := make([]rateResponse, 0, len(rates))
	for _, r := range rates {
		out = append(out, rateResponse{
			ServiceType:    string(r.ServiceType),
			IncludedHours:  r.IncludedHours.Float(),
			BaseFare:       r.BaseFare.Rupees(),
			OveragePerHour: r.OveragePerHour.Rupees(),
			Description:    r.Description,
		})
	}
	writeJSON(c, http.StatusOK, out)
}
