package memory

import (
	"context"
	"sync"

	"rentcal/internal/domain/pricing"
	"rentcal/internal/domain/shared/money"
)

// RateCard is an in-memory base nightly rate source.
type RateCard struct {
	mu    sync.RWMutex
	rates map[string]money.Money
}

func NewRateCard(rates map[string]money.Money) *RateCard {
	rc := &RateCard{rates: make(map[string]money.Money, len(rates))}
	for id, rate := range rates {
		rc.rates[id] = rate
	}
	return rc
}

func (r *RateCard) Set(propertyID string, rate money.Money) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates[propertyID] = rate
}

func (r *RateCard) BaseRate(ctx context.Context, propertyID string) (money.Money, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rate, ok := r.rates[propertyID]
	return rate, ok, nil
}

var _ pricing.BaseRateSource = (*RateCard)(nil)
