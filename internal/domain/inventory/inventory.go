// Package inventory answers how many bookable units a property has for a
// request. The engine only talks to Tracker, so a per-room-type policy can
// replace the single-unit default without touching callers.
package inventory

import (
	"context"
	"errors"
)

var ErrInvalidUnits = errors.New("inventory: requested units must be positive")

type Inventory struct {
	Total     int
	Available int
	Reserved  int
}

// Satisfies reports whether units can be served from the available count.
func (i Inventory) Satisfies(units int) bool {
	return units > 0 && i.Available >= units
}

type Tracker interface {
	Capacity(ctx context.Context, propertyID string, units int) (Inventory, error)
}

// SingleUnit is the default policy: each property is one bookable unit.
// Occupancy is enforced by conflict detection, so nothing is ever reserved here.
type SingleUnit struct{}

func (SingleUnit) Capacity(ctx context.Context, propertyID string, units int) (Inventory, error) {
	if units <= 0 {
		return Inventory{}, ErrInvalidUnits
	}
	return Inventory{Total: 1, Available: 1, Reserved: 0}, nil
}

// Fixed reports a configured unit count per property, falling back to Default.
type Fixed struct {
	Totals  map[string]int
	Default int
}

func (f Fixed) Capacity(ctx context.Context, propertyID string, units int) (Inventory, error) {
	if units <= 0 {
		return Inventory{}, ErrInvalidUnits
	}
	total, ok := f.Totals[propertyID]
	if !ok {
		total = f.Default
	}
	if total < 0 {
		total = 0
	}
	return Inventory{Total: total, Available: total}, nil
}

var (
	_ Tracker = SingleUnit{}
	_ Tracker = Fixed{}
)
