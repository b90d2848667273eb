// README: Booking store backed by a single pretty-printed JSON file.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store owns the bookings file. Every write replaces the whole collection;
// writers are serialised and readers never observe a partial file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore makes sure the file exists, creating an empty collection if not.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return &StoreIOError{Op: "stat", Err: err}
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &StoreIOError{Op: "mkdir", Err: err}
		}
	}
	return s.write(nil)
}

// List returns the collection in insertion order.
func (s *Store) List(ctx context.Context) ([]Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read()
}

// Mutate runs fn on the current collection under the write lock and persists
// what it returns. Nothing is written when fn fails.
func (s *Store) Mutate(ctx context.Context, fn func([]Booking) ([]Booking, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	bookings, err := s.read()
	if err != nil {
		return err
	}
	next, err := fn(bookings)
	if err != nil {
		return err
	}
	return s.write(next)
}

func (s *Store) read() ([]Booking, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &StoreIOError{Op: "read", Err: err}
	}
	var bookings []Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, &StoreIOError{Op: "decode", Err: err}
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	return bookings, nil
}

// write goes through a temp file and rename so the swap is atomic.
func (s *Store) write(bookings []Booking) error {
	if bookings == nil {
		bookings = []Booking{}
	}
	data, err := json.MarshalIndent(bookings, "", "  ")
	if err != nil {
		return &StoreIOError{Op: "encode", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &StoreIOError{Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return &StoreIOError{Op: "write", Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &StoreIOError{Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &StoreIOError{Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StoreIOError{Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &StoreIOError{Op: "rename", Err: err}
	}
	return nil
}
