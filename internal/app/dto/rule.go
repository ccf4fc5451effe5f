package dto

import (
	"time"

	"rentcal/internal/domain/rules"
)

type Rule struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Type       string    `json:"type"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Value      float64   `json:"value,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func MapRule(r rules.Rule) Rule {
	return Rule{
		ID:         string(r.ID),
		PropertyID: r.PropertyID,
		Type:       string(r.Type),
		Start:      r.Window.Start.Format(DateLayout),
		End:        r.Window.End.Format(DateLayout),
		Value:      r.Value,
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt,
	}
}
