package rules

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rentcal/internal/domain/shared/daterange"
)

var (
	ErrInvalidWindow = errors.New("rules: window end must not precede start")
	ErrInvalidType   = errors.New("rules: unknown rule type")
	ErrInvalidValue  = errors.New("rules: value out of range for rule type")
	ErrRuleNotFound  = errors.New("rules: not found")
)

type RuleID string

type Type string

const (
	TypeBlocked       Type = "blocked"
	TypePriceOverride Type = "price_override"
	TypeMinimumStay   Type = "minimum_stay"
	TypeMaximumStay   Type = "maximum_stay"
)

func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeBlocked, TypePriceOverride, TypeMinimumStay, TypeMaximumStay:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, raw)
	}
}

// Window is a closed range of whole days [Start, End]. Rule windows describe
// policy for entire days and must not be compared with DateRange.Overlaps.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: daterange.Day(start), End: daterange.Day(end)}
	if w.Start.IsZero() || w.End.IsZero() || w.End.Before(w.Start) {
		return Window{}, ErrInvalidWindow
	}
	return w, nil
}

// Intersects treats both the window and the stay as closed day ranges, so a
// rule starting on the checkout day still applies.
func (w Window) Intersects(stay daterange.DateRange) bool {
	return !w.Start.After(stay.CheckOut) && !stay.CheckIn.After(w.End)
}

// Rule is a time-bounded policy. Value means a nightly amount for
// price_override and a night count for stay rules; blocked ignores it.
type Rule struct {
	ID         RuleID
	PropertyID string
	Type       Type
	Window     Window
	Value      float64
	Reason     string
	CreatedAt  time.Time
}

func (r Rule) Validate() error {
	if _, err := ParseType(string(r.Type)); err != nil {
		return err
	}
	if r.Window.Start.IsZero() || r.Window.End.Before(r.Window.Start) {
		return ErrInvalidWindow
	}
	switch r.Type {
	case TypeMinimumStay, TypeMaximumStay:
		if r.Value < 1 {
			return fmt.Errorf("%w: %s needs at least 1 night", ErrInvalidValue, r.Type)
		}
	case TypePriceOverride:
		if r.Value <= 0 {
			return fmt.Errorf("%w: price override must be positive", ErrInvalidValue)
		}
	}
	return nil
}

// Find locates a rule by id.
func Find(rules []Rule, id RuleID) (int, bool) {
	for i, r := range rules {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}
