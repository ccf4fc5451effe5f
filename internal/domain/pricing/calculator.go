package pricing

import (
	"context"
	"fmt"
	"math"
	"time"

	"rentcal/internal/domain/shared/money"
)

const (
	DefaultFeeRate = 0.12
	DefaultTaxRate = 0.08
)

// DynamicCalculator prices a stay as base rate times the triggered factors,
// plus service fees and taxes on the accommodation amount.
type DynamicCalculator struct {
	Rates       BaseRateSource
	DefaultRate money.Money
	FeeRate     float64
	TaxRate     float64
	Now         func() time.Time
}

// NewDynamicCalculator returns a calculator with the standard fee and tax rates.
func NewDynamicCalculator(rates BaseRateSource, defaultRate money.Money, now func() time.Time) *DynamicCalculator {
	return &DynamicCalculator{
		Rates:       rates,
		DefaultRate: defaultRate,
		FeeRate:     DefaultFeeRate,
		TaxRate:     DefaultTaxRate,
		Now:         now,
	}
}

func (c *DynamicCalculator) Quote(ctx context.Context, input QuoteInput) (Quote, error) {
	if err := input.Range.Validate(); err != nil {
		return Quote{}, err
	}
	nights := input.Range.Nights()
	if nights <= 0 {
		return Quote{}, ErrNightsNotPositive
	}

	base, err := c.baseRate(ctx, input.PropertyID)
	if err != nil {
		return Quote{}, err
	}
	if base.Currency == "" {
		return Quote{}, ErrCurrencyUnset
	}

	var factors []Factor
	if input.Override != nil {
		if input.Override.Currency != "" && input.Override.Currency != base.Currency {
			return Quote{}, money.ErrCurrencyMismatch
		}
		base = money.Money{Amount: input.Override.Amount, Currency: base.Currency}
		reason := "price override"
		if input.OverrideReason != "" {
			reason = fmt.Sprintf("price override: %s", input.OverrideReason)
		}
		factors = append(factors, Factor{Type: FactorPriceOverride, Multiplier: 1, Reason: reason})
	}

	triggered := Factors(input.Range, c.now())
	factors = append(factors, triggered...)
	nightly := money.Money{
		Amount:   int64(math.Round(float64(base.Amount) * Compose(triggered))),
		Currency: base.Currency,
	}

	breakdown := PriceBreakdown{Nights: nights, Nightly: nightly}
	accommodation := breakdown.Accommodation()
	breakdown.Fees = []Fee{{Name: "service_fee", Amount: accommodation.Percent(c.feeRate())}}
	breakdown.Taxes = []Tax{{Name: "tax", Amount: accommodation.Percent(c.taxRate())}}
	if err := breakdown.RecalculateTotal(); err != nil {
		return Quote{}, err
	}

	return Quote{
		Currency:  base.Currency,
		BasePrice: base,
		Factors:   factors,
		Breakdown: breakdown,
	}, nil
}

func (c *DynamicCalculator) baseRate(ctx context.Context, propertyID string) (money.Money, error) {
	if c.Rates == nil {
		return c.DefaultRate, nil
	}
	rate, ok, err := c.Rates.BaseRate(ctx, propertyID)
	if err != nil {
		return money.Money{}, fmt.Errorf("pricing: base rate for %s: %w", propertyID, err)
	}
	if !ok {
		return c.DefaultRate, nil
	}
	return rate, nil
}

func (c *DynamicCalculator) now() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now()
}

func (c *DynamicCalculator) feeRate() float64 {
	if c.FeeRate <= 0 {
		return DefaultFeeRate
	}
	return c.FeeRate
}

func (c *DynamicCalculator) taxRate() float64 {
	if c.TaxRate <= 0 {
		return DefaultTaxRate
	}
	return c.TaxRate
}

var _ Calculator = (*DynamicCalculator)(nil)
