package inventory

import (
	"context"
	"errors"
	"testing"
)

func TestSingleUnitAlwaysOne(t *testing.T) {
	inv, err := SingleUnit{}.Capacity(context.Background(), "p1", 1)
	if err != nil {
		t.Fatalf("Capacity: %v", err)
	}
	if inv != (Inventory{Total: 1, Available: 1, Reserved: 0}) {
		t.Fatalf("unexpected inventory %+v", inv)
	}
	if !inv.Satisfies(1) || inv.Satisfies(2) {
		t.Fatal("single unit satisfies exactly one unit")
	}
}

func TestFixedUsesPerPropertyTotals(t *testing.T) {
	tracker := Fixed{Totals: map[string]int{"hostel": 6}, Default: 1}
	inv, _ := tracker.Capacity(context.Background(), "hostel", 4)
	if !inv.Satisfies(4) || inv.Total != 6 {
		t.Fatalf("unexpected hostel inventory %+v", inv)
	}
	inv, _ = tracker.Capacity(context.Background(), "flat", 1)
	if inv.Total != 1 {
		t.Fatalf("expected default of 1, got %+v", inv)
	}
}

func TestRejectsNonPositiveUnits(t *testing.T) {
	if _, err := (SingleUnit{}).Capacity(context.Background(), "p1", 0); !errors.Is(err, ErrInvalidUnits) {
		t.Fatalf("expected ErrInvalidUnits, got %v", err)
	}
}
