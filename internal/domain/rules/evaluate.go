package rules

import (
	"fmt"
	"math"

	"rentcal/internal/domain/shared/daterange"
)

type RestrictionCode string

const (
	CodeDateBlocked RestrictionCode = "date_blocked"
	CodeMinimumStay RestrictionCode = "minimum_stay"
	CodeMaximumStay RestrictionCode = "maximum_stay"
)

type Restriction struct {
	Code    RestrictionCode
	Message string
}

// Evaluation is the outcome of applying the rules of one stay.
type Evaluation struct {
	Applicable    []Rule
	Blocked       bool
	MinStay       int
	MaxStay       int
	PriceOverride *Rule
	Restrictions  []Restriction
}

// Allowed reports whether no rule restricts the stay.
func (e Evaluation) Allowed() bool {
	return len(e.Restrictions) == 0
}

// Applicable selects the rules whose window intersects stay.
func Applicable(rules []Rule, stay daterange.DateRange) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Window.Intersects(stay) {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate resolves restrictions in fixed order: blocked, minimum stay
// (largest value wins), maximum stay (smallest value wins).
func Evaluate(rules []Rule, stay daterange.DateRange) Evaluation {
	eval := Evaluation{Applicable: Applicable(rules, stay)}
	nights := stay.Nights()

	for _, r := range eval.Applicable {
		if r.Type == TypeBlocked {
			eval.Blocked = true
			msg := "dates are blocked"
			if r.Reason != "" {
				msg = fmt.Sprintf("dates are blocked: %s", r.Reason)
			}
			eval.Restrictions = append(eval.Restrictions, Restriction{Code: CodeDateBlocked, Message: msg})
			break
		}
	}

	for _, r := range eval.Applicable {
		if r.Type != TypeMinimumStay {
			continue
		}
		if m := nightCount(r.Value); m > eval.MinStay {
			eval.MinStay = m
		}
	}
	if eval.MinStay > 0 && nights < eval.MinStay {
		eval.Restrictions = append(eval.Restrictions, Restriction{
			Code:    CodeMinimumStay,
			Message: fmt.Sprintf("minimum stay is %d nights", eval.MinStay),
		})
	}

	for _, r := range eval.Applicable {
		if r.Type != TypeMaximumStay {
			continue
		}
		if m := nightCount(r.Value); eval.MaxStay == 0 || m < eval.MaxStay {
			eval.MaxStay = m
		}
	}
	if eval.MaxStay > 0 && nights > eval.MaxStay {
		eval.Restrictions = append(eval.Restrictions, Restriction{
			Code:    CodeMaximumStay,
			Message: fmt.Sprintf("maximum stay is %d nights", eval.MaxStay),
		})
	}

	for i := range eval.Applicable {
		r := eval.Applicable[i]
		if r.Type != TypePriceOverride {
			continue
		}
		// latest-starting window is the most specific; later entries win ties
		if eval.PriceOverride == nil || !r.Window.Start.Before(eval.PriceOverride.Window.Start) {
			eval.PriceOverride = &eval.Applicable[i]
		}
	}
	return eval
}

func nightCount(v float64) int {
	return int(math.Round(v))
}
