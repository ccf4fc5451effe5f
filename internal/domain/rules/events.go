package rules

import "time"

type RuleAdded struct {
	RuleID     RuleID    `json:"rule_id"`
	PropertyID string    `json:"property_id"`
	Type       Type      `json:"type"`
	Window     Window    `json:"window"`
	Value      float64   `json:"value"`
	At         time.Time `json:"at"`
}

func (e RuleAdded) EventName() string     { return "rule.added" }
func (e RuleAdded) AggregateID() string   { return e.PropertyID }
func (e RuleAdded) OccurredAt() time.Time { return e.At }

type RuleRemoved struct {
	RuleID     RuleID    `json:"rule_id"`
	PropertyID string    `json:"property_id"`
	Type       Type      `json:"type"`
	At         time.Time `json:"at"`
}

func (e RuleRemoved) EventName() string     { return "rule.removed" }
func (e RuleRemoved) AggregateID() string   { return e.PropertyID }
func (e RuleRemoved) OccurredAt() time.Time { return e.At }

func AddedEvent(r Rule, at time.Time) RuleAdded {
	return RuleAdded{RuleID: r.ID, PropertyID: r.PropertyID, Type: r.Type, Window: r.Window, Value: r.Value, At: at}
}

func RemovedEvent(r Rule, at time.Time) RuleRemoved {
	return RuleRemoved{RuleID: r.ID, PropertyID: r.PropertyID, Type: r.Type, At: at}
}
