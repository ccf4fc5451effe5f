package rules

import (
	"errors"
	"testing"
	"time"

	"rentcal/internal/domain/shared/daterange"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func stay(in, out int) daterange.DateRange {
	return daterange.DateRange{CheckIn: day(in), CheckOut: day(out)}
}

func rule(id string, typ Type, start, end int, value float64) Rule {
	return Rule{ID: RuleID(id), PropertyID: "p1", Type: typ, Window: Window{Start: day(start), End: day(end)}, Value: value}
}

func codes(rs []Restriction) []RestrictionCode {
	out := make([]RestrictionCode, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Code)
	}
	return out
}

func TestMinimumStayStrictestWins(t *testing.T) {
	rs := []Rule{
		rule("min2", TypeMinimumStay, 1, 30, 2),
		rule("min4", TypeMinimumStay, 5, 15, 4),
	}
	eval := Evaluate(rs, stay(10, 13))
	if eval.MinStay != 4 {
		t.Fatalf("expected min stay 4, got %d", eval.MinStay)
	}
	if eval.Allowed() {
		t.Fatal("3-night stay must be rejected by the 4-night rule")
	}
	if got := codes(eval.Restrictions); len(got) != 1 || got[0] != CodeMinimumStay {
		t.Fatalf("unexpected restrictions %v", got)
	}
	if eval.Restrictions[0].Message != "minimum stay is 4 nights" {
		t.Fatalf("unexpected message %q", eval.Restrictions[0].Message)
	}
}

func TestMaximumStayStrictestWins(t *testing.T) {
	rs := []Rule{
		rule("max10", TypeMaximumStay, 1, 30, 10),
		rule("max5", TypeMaximumStay, 1, 30, 5),
	}
	if eval := Evaluate(rs, stay(1, 6)); !eval.Allowed() || eval.MaxStay != 5 {
		t.Fatalf("5 nights should pass with max 5: %+v", eval)
	}
	eval := Evaluate(rs, stay(1, 7))
	if got := codes(eval.Restrictions); len(got) != 1 || got[0] != CodeMaximumStay {
		t.Fatalf("unexpected restrictions %v", got)
	}
}

func TestBlockedComesFirst(t *testing.T) {
	rs := []Rule{
		rule("min", TypeMinimumStay, 1, 30, 5),
		Rule{ID: "b", Type: TypeBlocked, Window: Window{Start: day(10), End: day(12)}, Reason: "maintenance"},
	}
	eval := Evaluate(rs, stay(11, 12))
	got := codes(eval.Restrictions)
	if len(got) != 2 || got[0] != CodeDateBlocked || got[1] != CodeMinimumStay {
		t.Fatalf("unexpected order %v", got)
	}
	if !eval.Blocked || eval.Restrictions[0].Message != "dates are blocked: maintenance" {
		t.Fatalf("unexpected blocked restriction %+v", eval.Restrictions[0])
	}
}

func TestWindowIsClosed(t *testing.T) {
	w := Window{Start: day(10), End: day(12)}
	cases := []struct {
		name string
		s    daterange.DateRange
		want bool
	}{
		{"ends before", stay(5, 9), false},
		{"checkout on start day", stay(8, 10), true},
		{"check-in on end day", stay(12, 14), true},
		{"starts after", stay(13, 15), false},
	}
	for _, tc := range cases {
		if got := w.Intersects(tc.s); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestPriceOverrideLatestStartWins(t *testing.T) {
	rs := []Rule{
		rule("season", TypePriceOverride, 1, 30, 150),
		rule("event", TypePriceOverride, 10, 12, 300),
		rule("event-fix", TypePriceOverride, 10, 11, 280),
	}
	eval := Evaluate(rs, stay(10, 12))
	if eval.PriceOverride == nil || eval.PriceOverride.ID != "event-fix" {
		t.Fatalf("unexpected override %+v", eval.PriceOverride)
	}
	if !eval.Allowed() {
		t.Fatal("price overrides never restrict a stay")
	}
}

func TestValidate(t *testing.T) {
	if err := rule("x", TypeMinimumStay, 1, 2, 0).Validate(); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := rule("x", TypeBlocked, 5, 2, 0).Validate(); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if err := rule("x", Type("weird"), 1, 2, 0).Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if err := rule("x", TypeBlocked, 1, 1, 0).Validate(); err != nil {
		t.Fatalf("single-day block is valid: %v", err)
	}
}
