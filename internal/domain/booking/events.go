package booking

import (
	"time"

	"rentcal/internal/domain/shared/daterange"
)

type BookingCreated struct {
	BookingID  BookingID           `json:"booking_id"`
	PropertyID string              `json:"property_id"`
	Range      daterange.DateRange `json:"range"`
	Status     Status              `json:"status"`
	GuestName  string              `json:"guest_name"`
	At         time.Time           `json:"at"`
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID  BookingID           `json:"booking_id"`
	PropertyID string              `json:"property_id"`
	Range      daterange.DateRange `json:"range"`
	At         time.Time           `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  BookingID           `json:"booking_id"`
	PropertyID string              `json:"property_id"`
	Range      daterange.DateRange `json:"range"`
	At         time.Time           `json:"at"`
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

func CreatedEvent(b Booking) BookingCreated {
	return BookingCreated{BookingID: b.ID, PropertyID: b.PropertyID, Range: b.Range, Status: b.Status, GuestName: b.GuestName, At: b.CreatedAt}
}

func ConfirmedEvent(b Booking) BookingConfirmed {
	return BookingConfirmed{BookingID: b.ID, PropertyID: b.PropertyID, Range: b.Range, At: b.UpdatedAt}
}

func CancelledEvent(b Booking) BookingCancelled {
	return BookingCancelled{BookingID: b.ID, PropertyID: b.PropertyID, Range: b.Range, At: b.UpdatedAt}
}
