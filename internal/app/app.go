// Package app registers the command and query handlers and wraps the buses
// with the middleware chain.
package app

import (
	"log/slog"
	"time"

	"rentcal/internal/app/commands"
	availabilityapp "rentcal/internal/app/handlers/availability"
	bookingapp "rentcal/internal/app/handlers/booking"
	rulesapp "rentcal/internal/app/handlers/rules"
	"rentcal/internal/app/middleware"
	"rentcal/internal/app/outbox"
	"rentcal/internal/app/policies"
	"rentcal/internal/app/queries"
)

// Engine is everything the handlers need from the availability engine.
type Engine interface {
	policies.AvailabilityReader
	policies.BookingLifecycle
	policies.RuleAdmin
}

type Deps struct {
	Engine      Engine
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	Idempotency middleware.IdempotencyStore
	Validator   middleware.Validator
	Logger      *slog.Logger
	Clock       func() time.Time
}

type Buses struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// NewBuses wires every handler. Optional deps (outbox, idempotency store,
// validator) drop their middleware when nil.
func NewBuses(d Deps) Buses {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, &bookingapp.CreateBookingHandler{
		Engine: d.Engine, Outbox: d.Outbox, Encoder: d.Encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, &bookingapp.ConfirmBookingHandler{
		Engine: d.Engine, Outbox: d.Outbox, Encoder: d.Encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, &bookingapp.CancelBookingHandler{
		Engine: d.Engine, Outbox: d.Outbox, Encoder: d.Encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, &rulesapp.AddRuleHandler{
		Engine: d.Engine, Outbox: d.Outbox, Encoder: d.Encoder, Logger: logger,
	})
	commands.RegisterHandler(commandBus, &rulesapp.RemoveRuleHandler{
		Engine: d.Engine, Outbox: d.Outbox, Encoder: d.Encoder, Logger: logger, Now: d.Clock,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, &availabilityapp.CheckAvailabilityHandler{Engine: d.Engine})
	queries.RegisterHandler(queryBus, &availabilityapp.GetCalendarHandler{Engine: d.Engine})

	cmdMW := []middleware.CommandMiddleware{middleware.Logging(logger)}
	queryMW := []middleware.QueryMiddleware{middleware.QueryLogging(logger)}
	if d.Validator != nil {
		cmdMW = append(cmdMW, middleware.Validation(d.Validator))
		queryMW = append(queryMW, middleware.QueryValidation(d.Validator))
	}
	if d.Idempotency != nil {
		cmdMW = append(cmdMW, middleware.Idempotency(d.Idempotency, nil))
	}
	if d.Outbox != nil {
		cmdMW = append(cmdMW, middleware.OutboxFlush(d.Outbox, logger))
	}

	return Buses{
		Commands: middleware.ChainCommands(commandBus, cmdMW...),
		Queries:  middleware.ChainQueries(queryBus, queryMW...),
	}
}
