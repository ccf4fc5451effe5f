package money

import (
	"errors"
	"testing"
)

func TestPercentRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		amount int64
		rate   float64
		want   int64
	}{
		{248, 0.12, 30},
		{248, 0.08, 20},
		{255, 0.12, 31},
		{250, 0.08, 20},
		{25, 0.1, 3},
	}
	for _, tc := range cases {
		got := Must(tc.amount, "USD").Percent(tc.rate)
		if got.Amount != tc.want {
			t.Errorf("%d x %.2f: got %d want %d", tc.amount, tc.rate, got.Amount, tc.want)
		}
	}
}

func TestAddRequiresSameCurrency(t *testing.T) {
	_, err := Must(1, "USD").Add(Must(1, "EUR"))
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
	sum, err := Must(1, "usd").Add(Must(2, "USD"))
	if err != nil || sum.Amount != 3 {
		t.Fatalf("unexpected sum %v err %v", sum, err)
	}
}

func TestNewRejectsBadCurrency(t *testing.T) {
	if _, err := New(10, "US"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}
