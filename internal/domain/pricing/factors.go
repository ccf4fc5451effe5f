package pricing

import (
	"time"

	"rentcal/internal/domain/shared/daterange"
)

type FactorType string

const (
	FactorSeason        FactorType = "season"
	FactorWeekend       FactorType = "day_of_week"
	FactorLeadTime      FactorType = "lead_time"
	FactorLengthOfStay  FactorType = "length_of_stay"
	FactorPriceOverride FactorType = "price_override"
)

type Factor struct {
	Type       FactorType
	Multiplier float64
	Reason     string
}

const (
	peakSeasonMultiplier = 1.30
	highSeasonMultiplier = 1.15
	weekendMultiplier    = 1.20
	lastMinuteMultiplier = 0.90
	earlyBirdMultiplier  = 0.85
	weeklyStayMultiplier = 0.90
	lastMinuteMaxDays    = 3
	earlyBirdMinDays     = 30
	weeklyStayMinNights  = 7
)

// Factors returns the triggered multipliers for a stay in their fixed order:
// season, day of week, lead time, length of stay.
func Factors(stay daterange.DateRange, now time.Time) []Factor {
	var out []Factor
	checkIn := stay.CheckIn

	switch checkIn.Month() {
	case time.December, time.January, time.February:
		out = append(out, Factor{Type: FactorSeason, Multiplier: peakSeasonMultiplier, Reason: "peak season"})
	case time.June, time.July, time.August, time.September:
		out = append(out, Factor{Type: FactorSeason, Multiplier: highSeasonMultiplier, Reason: "high season"})
	}

	switch checkIn.Weekday() {
	case time.Friday, time.Saturday:
		out = append(out, Factor{Type: FactorWeekend, Multiplier: weekendMultiplier, Reason: "weekend rate"})
	}

	daysAhead := LeadDays(checkIn, now)
	switch {
	case daysAhead <= lastMinuteMaxDays:
		out = append(out, Factor{Type: FactorLeadTime, Multiplier: lastMinuteMultiplier, Reason: "last-minute discount"})
	case daysAhead >= earlyBirdMinDays:
		out = append(out, Factor{Type: FactorLeadTime, Multiplier: earlyBirdMultiplier, Reason: "early-bird discount"})
	}

	if stay.Nights() >= weeklyStayMinNights {
		out = append(out, Factor{Type: FactorLengthOfStay, Multiplier: weeklyStayMultiplier, Reason: "weekly discount"})
	}
	return out
}

// LeadDays counts calendar days between today (UTC) and check-in. Past
// check-ins yield negative values.
func LeadDays(checkIn, now time.Time) int {
	return int(daterange.Day(checkIn).Sub(daterange.Day(now)) / (24 * time.Hour))
}

// Compose multiplies the factors together in order.
func Compose(factors []Factor) float64 {
	m := 1.0
	for _, f := range factors {
		m *= f.Multiplier
	}
	return m
}
