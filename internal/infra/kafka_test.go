package infra

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"taxibook/internal/modules/booking"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}

	e := booking.Event{
		Type:       booking.EventCreated,
		BookingID:  "BK1",
		Booking:    &booking.Booking{ID: "BK1", Name: "Asha"},
		OccurredAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}
	if err := p.Publish(context.Background(), e); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.msgs))
	}
	m := w.msgs[0]
	if string(m.Key) != "BK1" {
		t.Errorf("key = %q", m.Key)
	}
	if len(m.Headers) != 1 || string(m.Headers[0].Value) != "booking.created" {
		t.Errorf("headers = %+v", m.Headers)
	}
	var got map[string]any
	if err := json.Unmarshal(m.Value, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got["type"] != "booking.created" || got["bookingId"] != "BK1" {
		t.Errorf("payload = %v", got)
	}
}

func TestKafkaPublisher_WrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}, timeout: time.Second}

	err := p.Publish(context.Background(), booking.Event{Type: booking.EventDeleted, BookingID: "BK9"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped broker error", err)
	}
	if !strings.Contains(err.Error(), "BK9") {
		t.Errorf("error should name the booking: %v", err)
	}
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	if err := (&KafkaPublisher{w: w}).Close(); err != nil || !w.closed {
		t.Fatalf("close: %v closed=%v", err, w.closed)
	}
}

func TestParseBrokers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"localhost:9092", []string{"localhost:9092"}},
		{" a:9092, ,b:9092 ", []string{"a:9092", "b:9092"}},
	}
	for _, tt := range tests {
		if got := ParseBrokers(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseBrokers(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
