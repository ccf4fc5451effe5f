package availability

import (
	"context"

	"rentcal/internal/domain/booking"
	"rentcal/internal/domain/rules"
)

// Store is the keyed persistence the engine needs. Implementations must hand
// out copies: the engine mutates loaded slices before saving them back.
type Store interface {
	LoadBookings(ctx context.Context, propertyID string) ([]booking.Booking, error)
	SaveBookings(ctx context.Context, propertyID string, bookings []booking.Booking) error
	LoadRules(ctx context.Context, propertyID string) ([]rules.Rule, error)
	SaveRules(ctx context.Context, propertyID string, rules []rules.Rule) error
}

type state struct {
	bookings []booking.Booking
	rules    []rules.Rule
}

func (e *Engine) load(ctx context.Context, propertyID string) (state, error) {
	bookings, err := e.store.LoadBookings(ctx, propertyID)
	if err != nil {
		return state{}, storeErr("load bookings", propertyID, err)
	}
	rs, err := e.store.LoadRules(ctx, propertyID)
	if err != nil {
		return state{}, storeErr("load rules", propertyID, err)
	}
	return state{bookings: bookings, rules: rs}, nil
}
