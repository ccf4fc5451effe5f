package rules

import (
	"context"
	"log/slog"
	"time"

	"rentcal/internal/app/commands"
	"rentcal/internal/app/dto"
	"rentcal/internal/app/outbox"
	"rentcal/internal/app/policies"
	domainrules "rentcal/internal/domain/rules"
)

const (
	addRuleKey    = "rules.add"
	removeRuleKey = "rules.remove"
)

// AddRuleCommand creates a rule, or replaces the rule with the same RuleID.
type AddRuleCommand struct {
	PropertyID string    `validate:"required"`
	RuleID     string    `validate:"omitempty,max=64"`
	Type       string    `validate:"required,oneof=blocked price_override minimum_stay maximum_stay"`
	Start      time.Time `validate:"required"`
	End        time.Time `validate:"required"`
	Value      float64   `validate:"gte=0"`
	Reason     string    `validate:"max=500"`
}

func (c AddRuleCommand) Key() string { return addRuleKey }

type RemoveRuleCommand struct {
	PropertyID string `validate:"required"`
	RuleID     string `validate:"required"`
}

func (c RemoveRuleCommand) Key() string { return removeRuleKey }

type AddRuleHandler struct {
	Engine  policies.RuleAdmin
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *AddRuleHandler) Handle(ctx context.Context, cmd AddRuleCommand) (dto.Rule, error) {
	typ, err := domainrules.ParseType(cmd.Type)
	if err != nil {
		return dto.Rule{}, err
	}
	window, err := domainrules.NewWindow(cmd.Start, cmd.End)
	if err != nil {
		return dto.Rule{}, err
	}
	saved, err := h.Engine.AddRule(ctx, domainrules.Rule{
		ID:         domainrules.RuleID(cmd.RuleID),
		PropertyID: cmd.PropertyID,
		Type:       typ,
		Window:     window,
		Value:      cmd.Value,
		Reason:     cmd.Reason,
	})
	if err != nil {
		return dto.Rule{}, err
	}
	outbox.RecordLogged(ctx, h.Logger, h.Outbox, h.Encoder, domainrules.AddedEvent(saved, saved.CreatedAt))
	return dto.MapRule(saved), nil
}

type RemoveRuleHandler struct {
	Engine  policies.RuleAdmin
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *RemoveRuleHandler) Handle(ctx context.Context, cmd RemoveRuleCommand) (dto.Rule, error) {
	removed, err := h.Engine.RemoveRule(ctx, cmd.PropertyID, domainrules.RuleID(cmd.RuleID))
	if err != nil {
		return dto.Rule{}, err
	}
	outbox.RecordLogged(ctx, h.Logger, h.Outbox, h.Encoder, domainrules.RemovedEvent(removed, now(h.Now)))
	return dto.MapRule(removed), nil
}

func now(fn func() time.Time) time.Time {
	if fn == nil {
		return time.Now().UTC()
	}
	return fn().UTC()
}

var (
	_ commands.Handler[AddRuleCommand, dto.Rule]    = (*AddRuleHandler)(nil)
	_ commands.Handler[RemoveRuleCommand, dto.Rule] = (*RemoveRuleHandler)(nil)
)
