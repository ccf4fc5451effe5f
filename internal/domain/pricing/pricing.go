package pricing

import (
	"context"
	"errors"

	"rentcal/internal/domain/shared/daterange"
	"rentcal/internal/domain/shared/money"
)

var (
	ErrNegativeComponent = errors.New("pricing: components cannot be negative unless modeled as discount")
	ErrCurrencyUnset     = errors.New("pricing: currency must be defined")
	ErrNightsNotPositive = errors.New("pricing: nights must be positive")
)

type Fee struct {
	Name   string
	Amount money.Money
}

type Tax struct {
	Name   string
	Amount money.Money
}

type Discount struct {
	Name   string
	Amount money.Money
}

type PriceBreakdown struct {
	Nights    int
	Nightly   money.Money
	Fees      []Fee
	Taxes     []Tax
	Discounts []Discount
	Total     money.Money
}

func (p *PriceBreakdown) Validate() error {
	if p.Nightly.Currency == "" {
		return ErrCurrencyUnset
	}
	if p.Nights <= 0 {
		return ErrNightsNotPositive
	}
	return nil
}

// Accommodation is the nightly rate times the number of nights.
func (p PriceBreakdown) Accommodation() money.Money {
	return p.Nightly.Multiply(int64(p.Nights))
}

func (p *PriceBreakdown) RecalculateTotal() error {
	if err := p.Validate(); err != nil {
		return err
	}
	total := p.Accommodation()
	add := func(m money.Money) error {
		res, err := total.Add(m)
		if err != nil {
			return err
		}
		total = res
		return nil
	}
	for _, fee := range p.Fees {
		if fee.Amount.Amount < 0 {
			return ErrNegativeComponent
		}
		if err := add(fee.Amount); err != nil {
			return err
		}
	}
	for _, tax := range p.Taxes {
		if tax.Amount.Amount < 0 {
			return ErrNegativeComponent
		}
		if err := add(tax.Amount); err != nil {
			return err
		}
	}
	for _, discount := range p.Discounts {
		amount := discount.Amount
		if amount.Amount > 0 {
			amount = amount.Neg()
		}
		if err := add(amount); err != nil {
			return err
		}
	}
	if total.Amount < 0 {
		total = money.Money{Amount: 0, Currency: total.Currency}
	}
	p.Total = total
	return nil
}

func (p PriceBreakdown) Copy() PriceBreakdown {
	clone := p
	clone.Fees = append([]Fee(nil), p.Fees...)
	clone.Taxes = append([]Tax(nil), p.Taxes...)
	clone.Discounts = append([]Discount(nil), p.Discounts...)
	return clone
}

// Quote is the priced result of a stay. Factors explain how BasePrice became
// Breakdown.Nightly; they are recomputed on every call and never stored.
type Quote struct {
	Currency  string
	BasePrice money.Money
	Factors   []Factor
	Breakdown PriceBreakdown
}

func (q Quote) Total() money.Money {
	return q.Breakdown.Total
}

type QuoteInput struct {
	PropertyID string
	Range      daterange.DateRange
	Guests     int
	// Override replaces the property's base nightly rate when set.
	Override *money.Money
	// OverrideReason is copied into the price_override factor.
	OverrideReason string
}

type Calculator interface {
	Quote(ctx context.Context, input QuoteInput) (Quote, error)
}

// BaseRateSource supplies per-property nightly base rates. ok is false when
// the property has no configured rate.
type BaseRateSource interface {
	BaseRate(ctx context.Context, propertyID string) (rate money.Money, ok bool, err error)
}
