package availability

import (
	"context"
	"fmt"
	"time"

	"rentcal/internal/domain/rules"
	"rentcal/internal/domain/shared/daterange"
	"rentcal/internal/domain/shared/money"
)

type CalendarDay struct {
	Date         time.Time
	Available    bool
	Nightly      money.Money
	Restrictions []rules.Restriction
}

type Calendar struct {
	PropertyID string
	Year       int
	Month      time.Month
	Days       []CalendarDay
}

// GetCalendar evaluates a one-night stay for every day of the month. State is
// loaded once so the month is a consistent view.
func (e *Engine) GetCalendar(ctx context.Context, propertyID string, year int, month time.Month) (Calendar, error) {
	if err := requireProperty(propertyID); err != nil {
		return Calendar{}, err
	}
	if month < time.January || month > time.December || year < 1 {
		return Calendar{}, fmt.Errorf("%w: month %d-%02d", ErrInvalidRange, year, month)
	}
	st, err := e.load(ctx, propertyID)
	if err != nil {
		return Calendar{}, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	span := daterange.DateRange{CheckIn: first, CheckOut: first.AddDate(0, 1, 0)}
	cal := Calendar{PropertyID: propertyID, Year: year, Month: month, Days: make([]CalendarDay, 0, span.Nights())}
	for _, d := range span.Days() {
		if err := ctx.Err(); err != nil {
			return Calendar{}, err
		}
		resp, err := e.evaluate(ctx, st, propertyID, daterange.Single(d), 1, 1)
		if err != nil {
			return Calendar{}, err
		}
		cal.Days = append(cal.Days, CalendarDay{
			Date:         d,
			Available:    resp.Available,
			Nightly:      resp.Pricing.Breakdown.Nightly,
			Restrictions: resp.Restrictions,
		})
	}
	return cal, nil
}
