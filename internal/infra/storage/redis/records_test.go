package redis

import (
	"encoding/json"
	"testing"
	"time"

	domainbooking "rentcal/internal/domain/booking"
	domainrules "rentcal/internal/domain/rules"
	"rentcal/internal/domain/shared/daterange"
)

func TestKeysArePerProperty(t *testing.T) {
	if got := bookingsKey("villa-1"); got != "rentcal:bookings:villa-1" {
		t.Fatalf("unexpected bookings key %q", got)
	}
	if got := rulesKey("villa-1"); got != "rentcal:rules:villa-1" {
		t.Fatalf("unexpected rules key %q", got)
	}
}

func TestBookingsSurviveJSONStorage(t *testing.T) {
	created := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	dr, err := daterange.New(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	in := []domainbooking.Booking{{
		ID:         "b-1",
		PropertyID: "villa-1",
		Range:      dr,
		Status:     domainbooking.StatusConfirmed,
		GuestName:  "Ada",
		Guests:     2,
		Units:      1,
		CreatedAt:  created,
		UpdatedAt:  created,
	}}

	raw, err := json.Marshal(encodeBookings(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var recs []bookingRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out := decodeBookings("villa-1", recs)
	if len(out) != 1 {
		t.Fatalf("expected one booking, got %d", len(out))
	}
	got := out[0]
	if !got.Range.CheckIn.Equal(dr.CheckIn) || !got.Range.CheckOut.Equal(dr.CheckOut) {
		t.Fatalf("range changed: %+v", got.Range)
	}
	if got.Status != domainbooking.StatusConfirmed || got.PropertyID != "villa-1" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected booking %+v", got)
	}
}

func TestRuleWindowsStayUTC(t *testing.T) {
	w, err := domainrules.NewWindow(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	raw, err := json.Marshal(encodeRules([]domainrules.Rule{{ID: "r-1", Type: domainrules.TypeBlocked, Window: w}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var recs []ruleRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := decodeRules("villa-1", recs)[0]
	if got.Window.Start.Location() != time.UTC || !got.Window.End.Equal(w.End) {
		t.Fatalf("unexpected window %+v", got.Window)
	}
}
