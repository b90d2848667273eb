// README: Booking aggregate, status lifecycle, draft and patch shapes.
package booking

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"taxibook/internal/modules/pricing"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

func ParseStatus(v string) (Status, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, s := range Statuses {
		if string(s) == v {
			return s, true
		}
	}
	return "", false
}

// AllowedTransitions represents the booking lifecycle as code. Completed and
// cancelled are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Booking is the persisted record. Field names follow the site's JSON.
type Booking struct {
	ID            string     `json:"id"`
	Timestamp     time.Time  `json:"timestamp"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email,omitempty"`
	ServiceType   string     `json:"serviceType"`
	Hours         *FlexFloat `json:"hours,omitempty"`
	Location      string     `json:"location"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Status        Status     `json:"status"`
	EstimatedFare string     `json:"estimatedFare"`
}

// Draft is an unsaved booking as submitted by the form. Service is the
// legacy form field name for ServiceType.
type Draft struct {
	Name          string     `json:"name" validate:"required"`
	Phone         string     `json:"phone" validate:"required"`
	Email         string     `json:"email" validate:"omitempty,email"`
	ServiceType   string     `json:"serviceType" validate:"required"`
	Service       string     `json:"service" validate:"-"`
	Hours         *FlexFloat `json:"hours"`
	Location      string     `json:"location" validate:"required"`
	Date          string     `json:"date" validate:"required"`
	Time          string     `json:"time" validate:"required"`
	EstimatedFare string     `json:"estimatedFare"`
}

func (d *Draft) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.ServiceType = strings.TrimSpace(d.ServiceType)
	if d.ServiceType == "" {
		d.ServiceType = strings.TrimSpace(d.Service)
	}
	d.Location = strings.TrimSpace(d.Location)
	d.Date = strings.TrimSpace(d.Date)
	d.Time = strings.TrimSpace(d.Time)
	d.EstimatedFare = strings.TrimSpace(d.EstimatedFare)
}

// Patch carries the fields to merge onto an existing booking; nil means
// unchanged. Identity and creation time are not patchable.
type Patch struct {
	Name          *string    `json:"name"`
	Phone         *string    `json:"phone"`
	Email         *string    `json:"email"`
	ServiceType   *string    `json:"serviceType"`
	Hours         *FlexFloat `json:"hours"`
	Location      *string    `json:"location"`
	Date          *string    `json:"date"`
	Time          *string    `json:"time"`
	Status        *string    `json:"status"`
	EstimatedFare *string    `json:"estimatedFare"`
}

type Stats struct {
	Total         int
	ByStatus      map[Status]int
	TodayBookings int
	TodayRevenue  int64 // paise
}

// FlexFloat accepts 8, 8.5, "8" and "8.5". Blank, garbage and negative
// values decode as 0 and values above pricing.MaxHours are clamped, matching
// how the fare is computed.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) && v > 0 {
		v = pricing.MaxHours.Float()
	} else if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		*f = 0
		return nil
	}
	*f = FlexFloat(math.Min(v, pricing.MaxHours.Float()))
	return nil
}

func Float(v float64) *FlexFloat {
	f := FlexFloat(v)
	return &f
}
