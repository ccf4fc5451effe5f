package daterange

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsEmptyAndInvertedRanges(t *testing.T) {
	cases := []struct {
		name     string
		in, out  time.Time
		wantFail bool
	}{
		{"one night", date(2025, 6, 1), date(2025, 6, 2), false},
		{"same day", date(2025, 6, 1), date(2025, 6, 1), true},
		{"inverted", date(2025, 6, 3), date(2025, 6, 1), true},
		{"zero checkout", date(2025, 6, 1), time.Time{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.in, tc.out)
			if tc.wantFail && !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
			if !tc.wantFail && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewNormalizesToUTCDays(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	dr, err := New(time.Date(2025, 6, 1, 15, 30, 0, 0, loc), time.Date(2025, 6, 4, 9, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !dr.CheckIn.Equal(date(2025, 6, 1)) || !dr.CheckOut.Equal(date(2025, 6, 4)) {
		t.Fatalf("unexpected range %v..%v", dr.CheckIn, dr.CheckOut)
	}
	if dr.Nights() != 3 {
		t.Fatalf("expected 3 nights, got %d", dr.Nights())
	}
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	a := DateRange{CheckIn: date(2025, 6, 1), CheckOut: date(2025, 6, 5)}

	touching := DateRange{CheckIn: date(2025, 6, 5), CheckOut: date(2025, 6, 8)}
	if a.Overlaps(touching) || touching.Overlaps(a) {
		t.Fatal("checkout day N and check-in day N must not overlap")
	}

	crossing := DateRange{CheckIn: date(2025, 6, 4), CheckOut: date(2025, 6, 8)}
	if !a.Overlaps(crossing) || !crossing.Overlaps(a) {
		t.Fatal("checkout day N+1 and check-in day N must overlap")
	}

	inside := DateRange{CheckIn: date(2025, 6, 2), CheckOut: date(2025, 6, 3)}
	if !a.Overlaps(inside) || !a.Contains(inside) {
		t.Fatal("nested range must overlap and be contained")
	}
}

func TestShiftKeepsLength(t *testing.T) {
	a := DateRange{CheckIn: date(2025, 6, 28), CheckOut: date(2025, 7, 2)}
	b := a.Shift(7)
	if !b.CheckIn.Equal(date(2025, 7, 5)) || b.Nights() != a.Nights() {
		t.Fatalf("unexpected shift result %v..%v", b.CheckIn, b.CheckOut)
	}
}

func TestDaysListsEveryNight(t *testing.T) {
	a := DateRange{CheckIn: date(2025, 2, 27), CheckOut: date(2025, 3, 2)}
	days := a.Days()
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if !days[2].Equal(date(2025, 3, 1)) {
		t.Fatalf("unexpected last night %v", days[2])
	}
	if s := Single(days[1]); s.Nights() != 1 || !s.ContainsDate(days[1]) {
		t.Fatalf("single night range wrong: %v", s)
	}
}
