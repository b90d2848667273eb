// README: Rate schedule definitions for each service type.
package pricing

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"taxibook/internal/types"
)

type ServiceType string

const (
	ServiceMorning   ServiceType = "morning"
	ServiceAfternoon ServiceType = "afternoon"
	ServiceHourly    ServiceType = "hourly"
	ServiceNight     ServiceType = "night"
	ServiceTour      ServiceType = "tour"
	ServiceNightStay ServiceType = "nightstay"
)

// ServiceTypes lists every bookable type in display order.
var ServiceTypes = []ServiceType{
	ServiceMorning,
	ServiceAfternoon,
	ServiceHourly,
	ServiceNight,
	ServiceTour,
	ServiceNightStay,
}

// ParseServiceType normalises a form value ("Night Stay", "night_stay", "nightStay").
func ParseServiceType(v string) (ServiceType, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.NewReplacer("_", "", "-", "", " ", "").Replace(v)
	for _, t := range ServiceTypes {
		if string(t) == v {
			return t, true
		}
	}
	return "", false
}

// Hours is a duration in hundredths of an hour.
type Hours int64

// MaxHours is one year of service. Longer requests are quoted at the cap.
const MaxHours = Hours(24 * 365 * 100)

func WholeHours(n int64) Hours { return Hours(n * 100) }

// ParseHours never fails: empty, malformed, negative or non-finite input is 0.
// Numbers too large for a float64 are clamped to MaxHours.
func ParseHours(v string) Hours {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if errors.Is(err, strconv.ErrRange) && f > 0 {
		return MaxHours
	}
	if err != nil {
		return 0
	}
	return HoursFromFloat(f)
}

// HoursFromFloat converts and clamps f to [0, MaxHours].
func HoursFromFloat(f float64) Hours {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= MaxHours.Float() {
		return MaxHours
	}
	return Hours(math.Round(f * 100))
}

func (h Hours) Float() float64 { return float64(h) / 100 }

func (h Hours) String() string {
	if h%100 == 0 {
		return strconv.FormatInt(int64(h)/100, 10)
	}
	return strconv.FormatFloat(h.Float(), 'f', -1, 64)
}

type Rate struct {
	ServiceType    ServiceType
	IncludedHours  Hours
	BaseFare       types.Money
	OveragePerHour types.Money
	Description    string
}

// Schedule maps every service type to exactly one rate.
type Schedule map[ServiceType]Rate

type Quote struct {
	ServiceType     ServiceType
	Hours           Hours
	Total           types.Money
	RateDescription string
}

// DefaultSchedule is the tariff published on the booking site.
func DefaultSchedule() Schedule {
	return Schedule{
		ServiceMorning: {
			ServiceType:    ServiceMorning,
			IncludedHours:  WholeHours(8),
			BaseFare:       types.Rupees(1000),
			OveragePerHour: types.Rupees(200),
			Description:    "Base rate: ₹1000 for 8 hours\nAdditional hours: ₹200/hour",
		},
		ServiceAfternoon: {
			ServiceType:    ServiceAfternoon,
			IncludedHours:  WholeHours(5),
			BaseFare:       types.Rupees(1000),
			OveragePerHour: types.Rupees(200),
			Description:    "Base rate: ₹1000 for 5 hours\nAdditional hours: ₹200/hour",
		},
		ServiceHourly: {
			ServiceType:    ServiceHourly,
			BaseFare:       types.Rupees(0),
			OveragePerHour: types.Rupees(200),
			Description:    "Standard hourly rate: ₹200/hour",
		},
		ServiceNight: {
			ServiceType:    ServiceNight,
			IncludedHours:  WholeHours(2),
			BaseFare:       types.Rupees(750),
			OveragePerHour: types.Rupees(250),
			Description:    "Base rate: ₹750 for 2 hours\nAdditional hours: ₹250/hour",
		},
		ServiceTour: {
			ServiceType:    ServiceTour,
			IncludedHours:  WholeHours(12),
			BaseFare:       types.Rupees(1500),
			OveragePerHour: types.Rupees(200),
			Description:    "Base rate: ₹1500 for 12 hours\nAdditional hours: ₹200/hour",
		},
		ServiceNightStay: {
			ServiceType:    ServiceNightStay,
			BaseFare:       types.Rupees(0),
			OveragePerHour: types.Rupees(250),
			Description:    "Night stay rate: ₹250/hour",
		},
	}
}
