package booking

import (
	"errors"
	"strings"
	"time"

	"rentcal/internal/domain/shared/daterange"
)

var (
	ErrInvalidGuests   = errors.New("booking: guests count must be positive")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrInvalidStatus   = errors.New("booking: new bookings must be pending or confirmed")
	ErrGuestNameNeeded = errors.New("booking: guest name required")
	ErrCheckInInPast   = errors.New("booking: check-in date is in the past")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Active reports whether the status holds the property's dates.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Booking is a reservation hold on a property. Only Status (and the audit
// timestamps) change after creation; a date change is cancel + create.
type Booking struct {
	ID         BookingID
	PropertyID string
	Range      daterange.DateRange
	Status     Status
	GuestName  string
	Guests     int
	Units      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateParams struct {
	ID         BookingID
	PropertyID string
	Range      daterange.DateRange
	Status     Status
	GuestName  string
	Guests     int
	Units      int
	CreatedAt  time.Time
}

func NewBooking(params CreateParams) (Booking, error) {
	if params.Guests <= 0 {
		return Booking{}, ErrInvalidGuests
	}
	if strings.TrimSpace(params.GuestName) == "" {
		return Booking{}, ErrGuestNameNeeded
	}
	if params.Status != StatusPending && params.Status != StatusConfirmed {
		return Booking{}, ErrInvalidStatus
	}
	if err := params.Range.Validate(); err != nil {
		return Booking{}, err
	}
	units := params.Units
	if units <= 0 {
		units = 1
	}
	now := params.CreatedAt.UTC()
	return Booking{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		Range:      params.Range,
		Status:     params.Status,
		GuestName:  strings.TrimSpace(params.GuestName),
		Guests:     params.Guests,
		Units:      units,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ValidateCheckIn rejects stays that begin before today (UTC).
func ValidateCheckIn(dr daterange.DateRange, now time.Time) error {
	if dr.CheckIn.Before(daterange.Day(now)) {
		return ErrCheckInInPast
	}
	return nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	if !b.Status.Active() {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	return nil
}
