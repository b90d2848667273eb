// README: Booking lifecycle events published after each successful write.
package booking

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated EventType = "booking.created"
	EventUpdated EventType = "booking.updated"
	EventDeleted EventType = "booking.deleted"
)

type Event struct {
	Type       EventType `json:"type"`
	BookingID  string    `json:"bookingId"`
	Booking    *Booking  `json:"booking,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
