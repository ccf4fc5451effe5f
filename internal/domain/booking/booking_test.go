package booking

import (
	"errors"
	"testing"
	"time"

	"rentcal/internal/domain/shared/daterange"
)

func stay(inDay, outDay int) daterange.DateRange {
	return daterange.DateRange{
		CheckIn:  time.Date(2025, 6, inDay, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, outDay, 0, 0, 0, 0, time.UTC),
	}
}

func TestFindConflictsSkipsCancelledAndTouching(t *testing.T) {
	bookings := []Booking{
		{ID: "confirmed", Range: stay(1, 5), Status: StatusConfirmed},
		{ID: "pending", Range: stay(10, 12), Status: StatusPending},
		{ID: "cancelled", Range: stay(3, 8), Status: StatusCancelled},
	}

	got := FindConflicts(bookings, stay(4, 11))
	if len(got) != 2 || got[0].ID != "confirmed" || got[1].ID != "pending" {
		t.Fatalf("unexpected conflicts: %+v", got)
	}
	if got := FindConflicts(bookings, stay(5, 10)); len(got) != 0 {
		t.Fatalf("touching stays must not conflict: %+v", got)
	}
}

func TestNewBookingValidates(t *testing.T) {
	base := CreateParams{ID: "b1", PropertyID: "p1", Range: stay(1, 3), Status: StatusPending, GuestName: "Ada", Guests: 2}

	b, err := NewBooking(base)
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	if b.Units != 1 {
		t.Fatalf("units should default to 1, got %d", b.Units)
	}

	noGuests := base
	noGuests.Guests = 0
	if _, err := NewBooking(noGuests); !errors.Is(err, ErrInvalidGuests) {
		t.Fatalf("expected ErrInvalidGuests, got %v", err)
	}
	noName := base
	noName.GuestName = "  "
	if _, err := NewBooking(noName); !errors.Is(err, ErrGuestNameNeeded) {
		t.Fatalf("expected ErrGuestNameNeeded, got %v", err)
	}
	cancelled := base
	cancelled.Status = StatusCancelled
	if _, err := NewBooking(cancelled); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	b := Booking{ID: "b1", Range: stay(1, 3), Status: StatusPending}

	if err := b.Confirm(now); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := b.Confirm(now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second confirm should fail, got %v", err)
	}
	if err := b.Cancel(now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := b.Cancel(now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second cancel should fail, got %v", err)
	}
	if b.Status != StatusCancelled || !b.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected booking state %+v", b)
	}
}

func TestValidateCheckIn(t *testing.T) {
	now := time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC)
	if err := ValidateCheckIn(stay(2, 4), now); err != nil {
		t.Fatalf("today should be accepted: %v", err)
	}
	if err := ValidateCheckIn(stay(1, 4), now); !errors.Is(err, ErrCheckInInPast) {
		t.Fatalf("expected ErrCheckInInPast, got %v", err)
	}
}
