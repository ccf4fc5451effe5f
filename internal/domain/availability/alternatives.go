package availability

import (
	"context"

	"rentcal/internal/domain/pricing"
	"rentcal/internal/domain/rules"
	"rentcal/internal/domain/shared/daterange"
)

const (
	MaxAlternatives      = 5
	alternativeShiftDays = 7
)

// Alternative is a candidate stay of the same length offered when the
// requested one is unavailable. Unavailable candidates are kept and flagged.
type Alternative struct {
	Range        daterange.DateRange
	Nights       int
	Available    bool
	Pricing      pricing.Quote
	Restrictions []rules.Restriction
}

// alternatives shifts the stay forward by whole weeks and evaluates each
// candidate against the same loaded state. A candidate that fails to evaluate
// is dropped.
func (e *Engine) alternatives(ctx context.Context, st state, propertyID string, dr daterange.DateRange, guests, units int) []Alternative {
	out := make([]Alternative, 0, MaxAlternatives)
	for k := 1; k <= MaxAlternatives; k++ {
		if ctx.Err() != nil {
			break
		}
		candidate := dr.Shift(k * alternativeShiftDays)
		resp, err := e.evaluate(ctx, st, propertyID, candidate, guests, units)
		if err != nil {
			e.logger.Debug("alternative skipped",
				"property_id", propertyID,
				"check_in", candidate.CheckIn.Format(dateLayout),
				"error", err)
			continue
		}
		out = append(out, Alternative{
			Range:        candidate,
			Nights:       resp.Nights,
			Available:    resp.Available,
			Pricing:      resp.Pricing,
			Restrictions: resp.Restrictions,
		})
	}
	return out
}
