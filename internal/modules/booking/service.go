// README: Booking service validates submissions and owns every change to the collection.
package booking

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"taxibook/internal/modules/pricing"
	"taxibook/internal/pkg/logger"
	"taxibook/internal/pkg/validator"
	"taxibook/internal/types"
)

type Pricing interface {
	Compute(t pricing.ServiceType, hours pricing.Hours) pricing.Quote
}

type Options struct {
	// StrictStatus enforces AllowedTransitions on updates.
	StrictStatus bool
	// Location decides which calendar day counts as "today" in Stats.
	Location *time.Location
	Now      func() time.Time
}

type Service struct {
	store   *Store
	pricing Pricing
	events  Publisher
	strict  bool
	loc     *time.Location
	now     func() time.Time

	// lastIssued is the millisecond of the newest id handed out, so ids of
	// deleted bookings are never reused. Guarded by idMu.
	idMu       sync.Mutex
	lastIssued int64
}

func NewService(store *Store, pricing Pricing, events Publisher, opts Options) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:   store,
		pricing: pricing,
		events:  events,
		strict:  opts.StrictStatus,
		loc:     opts.Location,
		now:     opts.Now,
	}
}

// Create validates d, assigns id, timestamp and pending status, and appends
// the booking to the collection.
func (s *Service) Create(ctx context.Context, d Draft) (*Booking, error) {
	d.normalize()
	if errs := validator.Validate(d); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	now := s.now().UTC()
	b := Booking{
		Timestamp:     now,
		Name:          d.Name,
		Phone:         d.Phone,
		Email:         d.Email,
		ServiceType:   d.ServiceType,
		Hours:         d.Hours,
		Location:      d.Location,
		Date:          d.Date,
		Time:          d.Time,
		Status:        StatusPending,
		EstimatedFare: d.EstimatedFare,
	}
	if t, ok := pricing.ParseServiceType(d.ServiceType); ok {
		b.ServiceType = string(t)
		if b.EstimatedFare == "" && s.pricing != nil {
			b.EstimatedFare = s.pricing.Compute(t, hoursOf(d.Hours)).Total.String()
		}
	}

	err := s.store.Mutate(ctx, func(bookings []Booking) ([]Booking, error) {
		b.ID = s.nextID(bookings, now)
		return append(bookings, b), nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, Event{Type: EventCreated, BookingID: b.ID, Booking: &b, OccurredAt: now})
	return &b, nil
}

func (s *Service) List(ctx context.Context) ([]Booking, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	bookings, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if bookings[i].ID == id {
			return &bookings[i], nil
		}
	}
	return nil, ErrNotFound
}

// Update merges p onto the booking with the given id. The id is never changed.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Booking, error) {
	var updated Booking
	err := s.store.Mutate(ctx, func(bookings []Booking) ([]Booking, error) {
		idx := indexOf(bookings, id)
		if idx < 0 {
			return nil, ErrNotFound
		}
		b := bookings[idx]
		if err := s.apply(&b, p); err != nil {
			return nil, err
		}
		b.ID = id
		bookings[idx] = b
		updated = b
		return bookings, nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, Event{Type: EventUpdated, BookingID: id, Booking: &updated, OccurredAt: s.now().UTC()})
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Mutate(ctx, func(bookings []Booking) ([]Booking, error) {
		idx := indexOf(bookings, id)
		if idx < 0 {
			return nil, ErrNotFound
		}
		return append(bookings[:idx], bookings[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, Event{Type: EventDeleted, BookingID: id, OccurredAt: s.now().UTC()})
	return nil
}

// Stats is derived from the collection on every call. Fares that cannot be
// parsed count as zero revenue.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	bookings, err := s.store.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(bookings), ByStatus: make(map[Status]int, len(Statuses))}
	for _, status := range Statuses {
		st.ByStatus[status] = 0
	}
	ty, tm, td := s.now().In(s.loc).Date()
	for _, b := range bookings {
		st.ByStatus[b.Status]++
		y, m, d := b.Timestamp.In(s.loc).Date()
		if y != ty || m != tm || d != td {
			continue
		}
		st.TodayBookings++
		if fare, err := types.ParseMoney(b.EstimatedFare); err == nil {
			st.TodayRevenue += fare.Amount
		}
	}
	return st, nil
}

func (s *Service) apply(b *Booking, p Patch) error {
	required := []struct {
		field string
		src   *string
		dst   *string
	}{
		{"name", p.Name, &b.Name},
		{"phone", p.Phone, &b.Phone},
		{"serviceType", p.ServiceType, &b.ServiceType},
		{"location", p.Location, &b.Location},
		{"date", p.Date, &b.Date},
		{"time", p.Time, &b.Time},
	}
	verr := &ValidationError{Fields: map[string]string{}}
	for _, f := range required {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if v == "" {
			verr.Fields[f.field] = "This field is required"
			continue
		}
		*f.dst = v
	}
	if t, ok := pricing.ParseServiceType(b.ServiceType); ok {
		b.ServiceType = string(t)
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if email != "" {
			if errs := validator.Validate(struct {
				Email string `json:"email" validate:"email"`
			}{email}); errs != nil {
				verr.Fields["email"] = errs["email"]
			}
		}
		b.Email = email
	}
	if p.Hours != nil {
		b.Hours = p.Hours
	}
	if p.EstimatedFare != nil {
		b.EstimatedFare = strings.TrimSpace(*p.EstimatedFare)
	}
	if p.Status != nil {
		next, ok := ParseStatus(*p.Status)
		if !ok {
			verr.Fields["status"] = "Must be one of: pending confirmed completed cancelled"
		} else if s.strict && next != b.Status && !CanTransition(b.Status, next) {
			return ErrInvalidTransition
		} else {
			b.Status = next
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *Service) publish(ctx context.Context, e Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("event", string(e.Type)).
			Str("booking_id", e.BookingID).
			Msg("publish booking event")
	}
}

// nextID returns "BK<unix-millis>". The millisecond only moves forward from
// the last issued id and is bumped past any id already in the collection.
func (s *Service) nextID(bookings []Booking, now time.Time) string {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	ms := now.UnixMilli()
	if ms <= s.lastIssued {
		ms = s.lastIssued + 1
	}
	for {
		id := "BK" + strconv.FormatInt(ms, 10)
		if indexOf(bookings, id) < 0 {
			s.lastIssued = ms
			return id
		}
		ms++
	}
}

func indexOf(bookings []Booking, id string) int {
	for i := range bookings {
		if bookings[i].ID == id {
			return i
		}
	}
	return -1
}

func hoursOf(h *FlexFloat) pricing.Hours {
	if h == nil {
		return 0
	}
	return pricing.HoursFromFloat(float64(*h))
}
