package booking

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewStoreCreatesEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookings.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("initial content = %q, want []", data)
	}
	list, err := store.List(context.Background())
	if err != nil || len(list) != 0 {
		t.Fatalf("list: %v %v", list, err)
	}
}

func TestNewStoreKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.json")
	existing := `[{"id":"BK1","timestamp":"2024-05-01T10:00:00.000Z","name":"Ravi","phone":"9000000000",` +
		`"serviceType":"tour","location":"Mysuru","date":"2024-05-02","time":"06:00","status":"pending","estimatedFare":"₹1500.00"}]`
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	list, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "BK1" || list[0].EstimatedFare != "₹1500.00" {
		t.Fatalf("existing data not loaded: %+v", list)
	}
	if list[0].Timestamp.Year() != 2024 {
		t.Errorf("timestamp not parsed: %s", list[0].Timestamp)
	}
}

func TestMutateWritesPrettyJSON(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "bookings.json"))
	if err != nil {
		t.Fatal(err)
	}
	err = store.Mutate(context.Background(), func(b []Booking) ([]Booking, error) {
		return append(b, Booking{ID: "BK42", Timestamp: time.Unix(0, 0).UTC(), Status: StatusPending}), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(store.Path())
	if !strings.HasPrefix(string(data), "[\n  {\n    \"id\": \"BK42\"") {
		t.Errorf("file is not pretty-printed:\n%s", data)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(store.Path()), "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestMutateErrorLeavesFileUntouched(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "bookings.json"))
	if err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(store.Path())
	boom := errors.New("boom")
	err = store.Mutate(context.Background(), func(b []Booking) ([]Booking, error) {
		return append(b, Booking{ID: "BK1"}), boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	after, _ := os.ReadFile(store.Path())
	if string(before) != string(after) {
		t.Errorf("file changed on failed mutation")
	}
}

func TestMutateHonoursCancelledContext(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "bookings.json"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err = store.Mutate(ctx, func(b []Booking) ([]Booking, error) {
		called = true
		return b, nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("expected context.Canceled without calling fn, got %v (called=%v)", err, called)
	}
}

func TestReadersNeverSeePartialFile(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "bookings.json"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = store.Mutate(ctx, func(b []Booking) ([]Booking, error) {
				return append(b, Booking{ID: "BK" + strings.Repeat("x", i+1), Name: strings.Repeat("n", 512)}), nil
			})
		}
	}()
	for {
		select {
		case <-done:
			list, err := store.List(ctx)
			if err != nil || len(list) != 50 {
				t.Fatalf("final list: %d %v", len(list), err)
			}
			return
		default:
			if _, err := store.List(ctx); err != nil {
				t.Fatalf("reader saw a broken file: %v", err)
			}
		}
	}
}
