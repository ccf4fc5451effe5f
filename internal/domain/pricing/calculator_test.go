package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentcal/internal/domain/shared/daterange"
	"rentcal/internal/domain/shared/money"
)

type rateMap map[string]money.Money

func (r rateMap) BaseRate(ctx context.Context, propertyID string) (money.Money, bool, error) {
	rate, ok := r[propertyID]
	return rate, ok, nil
}

type brokenRates struct{}

func (brokenRates) BaseRate(context.Context, string) (money.Money, bool, error) {
	return money.Money{}, false, errors.New("rates offline")
}

func utc(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func fixed(t time.Time) func() time.Time { return func() time.Time { return t } }

func quote(t *testing.T, calc *DynamicCalculator, in QuoteInput) Quote {
	t.Helper()
	q, err := calc.Quote(context.Background(), in)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	return q
}

func factorTypes(fs []Factor) []FactorType {
	out := make([]FactorType, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Type)
	}
	return out
}

func TestQuoteSaturdayInJulyLastMinute(t *testing.T) {
	calc := NewDynamicCalculator(rateMap{"p1": money.Must(100, "USD")}, money.Must(80, "USD"), fixed(utc(2025, 7, 5, 10)))
	q := quote(t, calc, QuoteInput{
		PropertyID: "p1",
		Range:      daterange.DateRange{CheckIn: utc(2025, 7, 5, 0), CheckOut: utc(2025, 7, 7, 0)},
		Guests:     2,
	})

	types := factorTypes(q.Factors)
	want := []FactorType{FactorSeason, FactorWeekend, FactorLeadTime}
	if len(types) != len(want) {
		t.Fatalf("unexpected factors %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("factor %d: got %s want %s", i, types[i], want[i])
		}
	}
	b := q.Breakdown
	if b.Nightly.Amount != 124 || b.Accommodation().Amount != 248 {
		t.Fatalf("unexpected nightly %d / accommodation %d", b.Nightly.Amount, b.Accommodation().Amount)
	}
	if b.Fees[0].Amount.Amount != 30 || b.Taxes[0].Amount.Amount != 20 {
		t.Fatalf("unexpected fees %d taxes %d", b.Fees[0].Amount.Amount, b.Taxes[0].Amount.Amount)
	}
	if q.Total().Amount != 298 || q.Currency != "USD" || q.BasePrice.Amount != 100 {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestQuoteFactorScenarios(t *testing.T) {
	cases := []struct {
		name    string
		now     time.Time
		in, out time.Time
		factors []FactorType
		total   int64
	}{
		{
			name:    "early bird weekday in march",
			now:     utc(2025, 1, 6, 9),
			in:      utc(2025, 3, 10, 0),
			out:     utc(2025, 3, 13, 0),
			factors: []FactorType{FactorLeadTime},
			total:   306,
		},
		{
			name:    "weekly stay in april",
			now:     utc(2025, 4, 1, 9),
			in:      utc(2025, 4, 14, 0),
			out:     utc(2025, 4, 21, 0),
			factors: []FactorType{FactorLengthOfStay},
			total:   756,
		},
		{
			name:    "peak season",
			now:     utc(2025, 11, 20, 9),
			in:      utc(2025, 12, 1, 0),
			out:     utc(2025, 12, 3, 0),
			factors: []FactorType{FactorSeason},
			total:   312,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calc := NewDynamicCalculator(nil, money.Must(100, "USD"), fixed(tc.now))
			q := quote(t, calc, QuoteInput{PropertyID: "p1", Range: daterange.DateRange{CheckIn: tc.in, CheckOut: tc.out}})
			got := factorTypes(q.Factors)
			if len(got) != len(tc.factors) || (len(got) > 0 && got[0] != tc.factors[0]) {
				t.Fatalf("factors: got %v want %v", got, tc.factors)
			}
			if q.Total().Amount != tc.total {
				t.Fatalf("total: got %d want %d", q.Total().Amount, tc.total)
			}
		})
	}
}

func TestQuoteOverrideReplacesBaseRate(t *testing.T) {
	calc := NewDynamicCalculator(rateMap{"p1": money.Must(100, "USD")}, money.Must(100, "USD"), fixed(utc(2025, 4, 1, 9)))
	q := quote(t, calc, QuoteInput{
		PropertyID:     "p1",
		Range:          daterange.DateRange{CheckIn: utc(2025, 4, 14, 0), CheckOut: utc(2025, 4, 16, 0)},
		Override:       &money.Money{Amount: 200},
		OverrideReason: "festival",
	})
	if q.BasePrice.Amount != 200 || q.Total().Amount != 480 {
		t.Fatalf("unexpected quote %+v", q)
	}
	if len(q.Factors) != 1 || q.Factors[0].Type != FactorPriceOverride || q.Factors[0].Multiplier != 1 {
		t.Fatalf("override must be explained: %+v", q.Factors)
	}
	if q.Factors[0].Reason != "price override: festival" {
		t.Fatalf("unexpected reason %q", q.Factors[0].Reason)
	}
}

func TestQuoteFallsBackToDefaultRate(t *testing.T) {
	calc := NewDynamicCalculator(rateMap{"other": money.Must(500, "USD")}, money.Must(100, "USD"), fixed(utc(2025, 4, 1, 9)))
	q := quote(t, calc, QuoteInput{PropertyID: "p1", Range: daterange.DateRange{CheckIn: utc(2025, 4, 14, 0), CheckOut: utc(2025, 4, 15, 0)}})
	if q.BasePrice.Amount != 100 {
		t.Fatalf("expected default base rate, got %d", q.BasePrice.Amount)
	}
}

func TestQuoteFailsWhenRateSourceFails(t *testing.T) {
	calc := NewDynamicCalculator(brokenRates{}, money.Must(100, "USD"), fixed(utc(2025, 4, 1, 9)))
	_, err := calc.Quote(context.Background(), QuoteInput{PropertyID: "p1", Range: daterange.DateRange{CheckIn: utc(2025, 4, 14, 0), CheckOut: utc(2025, 4, 15, 0)}})
	if err == nil {
		t.Fatal("expected error from failing rate source")
	}
}

func TestQuoteIsReproducible(t *testing.T) {
	calc := NewDynamicCalculator(nil, money.Must(100, "USD"), fixed(utc(2025, 7, 5, 10)))
	in := QuoteInput{PropertyID: "p1", Range: daterange.DateRange{CheckIn: utc(2025, 7, 5, 0), CheckOut: utc(2025, 7, 7, 0)}}
	a, b := quote(t, calc, in), quote(t, calc, in)
	if a.Total() != b.Total() || len(a.Factors) != len(b.Factors) {
		t.Fatalf("quotes differ: %+v vs %+v", a, b)
	}
}

func TestLeadDaysUsesCalendarDays(t *testing.T) {
	if got := LeadDays(utc(2025, 7, 8, 0), utc(2025, 7, 5, 23)); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := LeadDays(utc(2025, 7, 4, 0), utc(2025, 7, 5, 1)); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
