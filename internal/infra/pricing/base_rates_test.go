package pricing

import (
	"testing"

	"rentcal/internal/domain/shared/money"
)

func TestLoadBaseRates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]money.Money
	}{
		{name: "empty", raw: "", want: map[string]money.Money{}},
		{name: "invalid json", raw: "{villa", want: map[string]money.Money{}},
		{
			name: "valid",
			raw:  `{"villa-1": 150, "loft-2": 90}`,
			want: map[string]money.Money{
				"villa-1": money.Must(150, "USD"),
				"loft-2":  money.Must(90, "USD"),
			},
		},
		{
			name: "skips non-positive",
			raw:  `{"villa-1": 0, "loft-2": -5, "cabin": 70}`,
			want: map[string]money.Money{"cabin": money.Must(70, "USD")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadBaseRates(tt.raw, "USD", nil)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d rates, got %v", len(tt.want), got)
			}
			for id, rate := range tt.want {
				if got[id] != rate {
					t.Fatalf("%s: expected %v, got %v", id, rate, got[id])
				}
			}
		})
	}
}
