package ginserver

import (
	"fmt"
	"strconv"
	"time"

	"rentcal/internal/app/dto"
)

func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required (YYYY-MM-DD)", field)
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", field)
	}
	return t, nil
}

// parseOptionalInt returns def for an empty value.
func parseOptionalInt(field, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", field)
	}
	return n, nil
}

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}
