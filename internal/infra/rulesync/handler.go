// Package rulesync applies rule changes published by admin tooling.
package rulesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"rentcal/internal/app/commands"
	"rentcal/internal/app/dto"
	rulehandlers "rentcal/internal/app/handlers/rules"
	"rentcal/internal/infra/broker/kafka"
)

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

var (
	ErrMalformed     = errors.New("rulesync: malformed message")
	ErrUnknownAction = errors.New("rulesync: unknown action")
)

// Message is the wire format on the rules topic. Dates are YYYY-MM-DD.
type Message struct {
	EventID string      `json:"event_id"`
	Action  string      `json:"action"`
	Rule    RulePayload `json:"rule"`
}

type RulePayload struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"property_id"`
	Type       string  `json:"type"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Value      float64 `json:"value"`
	Reason     string  `json:"reason"`
}

type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// Handler turns rule messages into rule commands. Each event id is applied
// at most once per inbox.
type Handler struct {
	Bus    commands.Bus
	Inbox  Inbox
	Logger *slog.Logger
}

func (h *Handler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	return h.Apply(ctx, msg.Value)
}

func (h *Handler) Apply(ctx context.Context, payload []byte) error {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if m.EventID == "" || m.Rule.PropertyID == "" {
		return fmt.Errorf("%w: event_id and rule.property_id required", ErrMalformed)
	}
	seen, err := h.Inbox.Seen(ctx, m.EventID)
	if err != nil {
		return err
	}
	if seen {
		h.logger().DebugContext(ctx, "rule message already applied", "event_id", m.EventID)
		return nil
	}
	if err := h.apply(ctx, m); err != nil {
		if ferr := h.Inbox.Forget(ctx, m.EventID); ferr != nil {
			h.logger().WarnContext(ctx, "inbox forget failed", "event_id", m.EventID, "error", ferr)
		}
		return err
	}
	h.logger().InfoContext(ctx, "rule message applied", "event_id", m.EventID, "action", m.Action,
		"property", m.Rule.PropertyID, "rule", m.Rule.ID)
	return nil
}

func (h *Handler) apply(ctx context.Context, m Message) error {
	switch m.Action {
	case ActionAdd:
		start, err := time.Parse(dto.DateLayout, m.Rule.Start)
		if err != nil {
			return fmt.Errorf("%w: start: %w", ErrMalformed, err)
		}
		end, err := time.Parse(dto.DateLayout, m.Rule.End)
		if err != nil {
			return fmt.Errorf("%w: end: %w", ErrMalformed, err)
		}
		_, err = commands.Dispatch[rulehandlers.AddRuleCommand, dto.Rule](ctx, h.Bus, rulehandlers.AddRuleCommand{
			PropertyID: m.Rule.PropertyID,
			RuleID:     m.Rule.ID,
			Type:       m.Rule.Type,
			Start:      start,
			End:        end,
			Value:      m.Rule.Value,
			Reason:     m.Rule.Reason,
		})
		return err
	case ActionRemove:
		_, err := commands.Dispatch[rulehandlers.RemoveRuleCommand, dto.Rule](ctx, h.Bus, rulehandlers.RemoveRuleCommand{
			PropertyID: m.Rule.PropertyID,
			RuleID:     m.Rule.ID,
		})
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, m.Action)
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}

var _ kafka.MessageHandler = (*Handler)(nil)
