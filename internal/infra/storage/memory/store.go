package memory

import (
	"context"
	"slices"
	"sync"

	"rentcal/internal/domain/availability"
	"rentcal/internal/domain/booking"
	"rentcal/internal/domain/rules"
)

// PropertyStore keeps bookings and rules per property in process memory.
// Loads and saves copy the slices so callers never share backing arrays.
type PropertyStore struct {
	mu       sync.RWMutex
	bookings map[string][]booking.Booking
	rules    map[string][]rules.Rule
}

func NewPropertyStore() *PropertyStore {
	return &PropertyStore{
		bookings: make(map[string][]booking.Booking),
		rules:    make(map[string][]rules.Rule),
	}
}

func (s *PropertyStore) LoadBookings(ctx context.Context, propertyID string) ([]booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.bookings[propertyID]), nil
}

func (s *PropertyStore) SaveBookings(ctx context.Context, propertyID string, bookings []booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[propertyID] = slices.Clone(bookings)
	return nil
}

func (s *PropertyStore) LoadRules(ctx context.Context, propertyID string) ([]rules.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rules[propertyID]), nil
}

func (s *PropertyStore) SaveRules(ctx context.Context, propertyID string, rs []rules.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[propertyID] = slices.Clone(rs)
	return nil
}

func (s *PropertyStore) Ping(ctx context.Context) error { return nil }

var _ availability.Store = (*PropertyStore)(nil)
