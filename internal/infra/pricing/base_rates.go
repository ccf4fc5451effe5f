package pricing

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"rentcal/internal/domain/shared/money"
)

// LoadBaseRates parses BASE_RATES, a JSON object of property id to nightly
// amount in currency. Invalid JSON yields no rates; non-positive entries are
// skipped. Either case is logged and the default nightly rate applies.
func LoadBaseRates(raw, currency string, logger *slog.Logger) map[string]money.Money {
	rates := map[string]money.Money{}
	if strings.TrimSpace(raw) == "" {
		return rates
	}
	var amounts map[string]int64
	if err := json.Unmarshal([]byte(raw), &amounts); err != nil {
		if logger != nil {
			logger.Warn("invalid BASE_RATES JSON, using default rate", "error", err)
		}
		return rates
	}
	ids := make([]string, 0, len(amounts))
	for id := range amounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		m, err := money.New(amounts[id], currency)
		if err != nil || amounts[id] <= 0 || strings.TrimSpace(id) == "" {
			if logger != nil {
				logger.Warn("skipping base rate", "property", id, "amount", amounts[id])
			}
			continue
		}
		rates[id] = m
	}
	return rates
}
