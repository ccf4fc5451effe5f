package availability

import (
	"time"

	"rentcal/internal/domain/booking"
	"rentcal/internal/domain/rules"
	"rentcal/internal/domain/shared/daterange"
)

type Cause string

const (
	CauseBookingCreated   Cause = "booking.created"
	CauseBookingConfirmed Cause = "booking.confirmed"
	CauseBookingCancelled Cause = "booking.cancelled"
	CauseRuleAdded        Cause = "rule.added"
	CauseRuleRemoved      Cause = "rule.removed"
)

type BookingSummary struct {
	ID     booking.BookingID
	Range  daterange.DateRange
	Status booking.Status
	Units  int
}

// Snapshot is the state summary pushed to subscribers after a mutation. It
// shares no memory with the engine.
type Snapshot struct {
	PropertyID string
	Sequence   uint64
	Cause      Cause
	Bookings   []BookingSummary
	Blocked    []rules.Window
	Rules      int
	At         time.Time
}

func newSnapshot(propertyID string, seq uint64, cause Cause, st state, at time.Time) Snapshot {
	snap := Snapshot{
		PropertyID: propertyID,
		Sequence:   seq,
		Cause:      cause,
		Bookings:   []BookingSummary{},
		Blocked:    []rules.Window{},
		Rules:      len(st.rules),
		At:         at.UTC(),
	}
	for _, b := range st.bookings {
		if !b.Status.Active() {
			continue
		}
		snap.Bookings = append(snap.Bookings, BookingSummary{ID: b.ID, Range: b.Range, Status: b.Status, Units: b.Units})
	}
	for _, r := range st.rules {
		if r.Type == rules.TypeBlocked {
			snap.Blocked = append(snap.Blocked, r.Window)
		}
	}
	return snap
}
