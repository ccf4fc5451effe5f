package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingapp "rentcal/internal/app/handlers/booking"
)

func TestValidateAcceptsCompleteCommand(t *testing.T) {
	cmd := bookingapp.CreateBookingCommand{
		PropertyID: "villa-1",
		CheckIn:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		GuestName:  "Ada",
		Guests:     2,
	}
	if err := New().Validate(context.Background(), cmd); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
}

func TestValidateReportsFields(t *testing.T) {
	cmd := bookingapp.CreateBookingCommand{
		CheckIn:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		Guests:   0,
		Status:   "cancelled",
	}
	err := New().Validate(context.Background(), cmd)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	for _, field := range []string{"property_id", "guest_name", "guests", "status"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected %s in %v", field, verr.Fields)
		}
	}
}

func TestSnake(t *testing.T) {
	tests := map[string]string{
		"PropertyID":      "property_id",
		"GuestName":       "guest_name",
		"Guests":          "guests",
		"IdempotencyKeyV": "idempotency_key_v",
	}
	for in, want := range tests {
		if got := snake(in); got != want {
			t.Fatalf("snake(%q) = %q, want %q", in, got, want)
		}
	}
}
