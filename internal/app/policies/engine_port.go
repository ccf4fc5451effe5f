package policies

import (
	"context"
	"time"

	"rentcal/internal/domain/availability"
	"rentcal/internal/domain/booking"
	"rentcal/internal/domain/rules"
)

// AvailabilityReader is the read side of the availability engine.
type AvailabilityReader interface {
	CheckAvailability(ctx context.Context, req availability.Request) (availability.Response, error)
	GetCalendar(ctx context.Context, propertyID string, year int, month time.Month) (availability.Calendar, error)
}

type BookingLifecycle interface {
	CreateBooking(ctx context.Context, params availability.CreateBookingParams) (booking.Booking, error)
	ConfirmBooking(ctx context.Context, propertyID string, id booking.BookingID) (booking.Booking, error)
	CancelBooking(ctx context.Context, propertyID string, id booking.BookingID) (booking.Booking, error)
}

type RuleAdmin interface {
	AddRule(ctx context.Context, r rules.Rule) (rules.Rule, error)
	RemoveRule(ctx context.Context, propertyID string, id rules.RuleID) (rules.Rule, error)
}

// SnapshotSource lets transports follow a property's changes.
type SnapshotSource interface {
	Subscribe(propertyID string, fn availability.Listener) (unsubscribe func())
}

var (
	_ AvailabilityReader = (*availability.Engine)(nil)
	_ BookingLifecycle   = (*availability.Engine)(nil)
	_ RuleAdmin          = (*availability.Engine)(nil)
	_ SnapshotSource     = (*availability.Engine)(nil)
)
