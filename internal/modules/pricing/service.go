// README: Pricing service computes fare quotes from the frozen rate schedule.
package pricing

import (
	"errors"
	"fmt"

	"taxibook/internal/types"
)

var ErrInvalidSchedule = errors.New("invalid rate schedule")

// MaxRupees bounds base fares and hourly rates. With hours capped at
// MaxHours the largest total stays far below the int64 paise range.
const MaxRupees = 1_000_000_000

type Service struct {
	schedule Schedule
}

// NewService validates the schedule and keeps a private copy of it.
func NewService(schedule Schedule) (*Service, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	cp := make(Schedule, len(schedule))
	for k, v := range schedule {
		v.ServiceType = k
		cp[k] = v
	}
	return &Service{schedule: cp}, nil
}

var defaultService = mustService(DefaultSchedule())

func mustService(s Schedule) *Service {
	svc, err := NewService(s)
	if err != nil {
		panic(err)
	}
	return svc
}

// Compute quotes against the default schedule.
func Compute(t ServiceType, hours Hours) Quote {
	return defaultService.Compute(t, hours)
}

// Compute returns the total fare for hours of service t. An unknown type
// yields a zero quote with no description.
func (s *Service) Compute(t ServiceType, hours Hours) Quote {
	if hours < 0 {
		hours = 0
	}
	if hours > MaxHours {
		hours = MaxHours
	}
	q := Quote{ServiceType: t, Hours: hours, Total: types.Money{Currency: types.CurrencyINR}}
	rate, ok := s.schedule[t]
	if !ok {
		return q
	}
	q.RateDescription = rate.Description
	q.Total = rate.BaseFare
	if hours > rate.IncludedHours {
		extra := int64(hours - rate.IncludedHours)
		// hundredths of an hour times paise per hour, rounded half up to the paisa
		q.Total = q.Total.Add(types.Money{Amount: (extra*rate.OveragePerHour.Amount + 50) / 100})
	}
	return q
}

// QuoteInput is the lenient variant used by live previews.
func (s *Service) QuoteInput(serviceType, hours string) Quote {
	t, _ := ParseServiceType(serviceType)
	return s.Compute(t, ParseHours(hours))
}

func (s *Service) Rate(t ServiceType) (Rate, bool) {
	r, ok := s.schedule[t]
	return r, ok
}

// Rates returns the schedule in display order.
func (s *Service) Rates() []Rate {
	out := make([]Rate, 0, len(ServiceTypes))
	for _, t := range ServiceTypes {
		out = append(out, s.schedule[t])
	}
	return out
}

func (s Schedule) Validate() error {
	for _, t := range ServiceTypes {
		r, ok := s[t]
		if !ok {
			return fmt.Errorf("%w: missing rate for %s", ErrInvalidSchedule, t)
		}
		if r.IncludedHours < 0 || r.BaseFare.Amount < 0 || r.OveragePerHour.Amount < 0 {
			return fmt.Errorf("%w: negative value for %s", ErrInvalidSchedule, t)
		}
		if r.BaseFare.Amount > MaxRupees*100 || r.OveragePerHour.Amount > MaxRupees*100 {
			return fmt.Errorf("%w: rate above ₹%d for %s", ErrInvalidSchedule, int64(MaxRupees), t)
		}
	}
	for t := range s {
		if p, ok := ParseServiceType(string(t)); !ok || p != t {
			return fmt.Errorf("%w: unknown service type %q", ErrInvalidSchedule, t)
		}
	}
	return nil
}
