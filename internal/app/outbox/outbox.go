package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rentcal/internal/domain/shared/events"
)

// EventRecord is a serialized domain event waiting for relay.
type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

type EventEncoder interface {
	Encode(ctx context.Context, ev events.DomainEvent) (EventRecord, error)
}

// JSONEventEncoder marshals the event struct as the payload. HeadersFrom can
// copy request scoped values such as a request id into the record headers.
type JSONEventEncoder struct {
	IDGenerator func() string
	HeadersFrom func(ctx context.Context) map[string]string
}

func (e JSONEventEncoder) Encode(ctx context.Context, ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, err
	}
	idGen := e.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	headers := map[string]string{}
	if e.HeadersFrom != nil {
		for k, v := range e.HeadersFrom(ctx) {
			headers[k] = v
		}
	}
	return EventRecord{
		ID:         idGen(),
		Name:       ev.EventName(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt().UTC(),
		Aggregate:  ev.AggregateID(),
		Headers:    headers,
	}, nil
}

// Record encodes evs and adds them to box. A nil box drops them.
func Record(ctx context.Context, box Outbox, encoder EventEncoder, evs ...events.DomainEvent) error {
	if box == nil || len(evs) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, ev := range evs {
		rec, err := encoder.Encode(ctx, ev)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordLogged is Record for callers that already committed their change:
// an encode or add failure is logged instead of returned.
func RecordLogged(ctx context.Context, logger *slog.Logger, box Outbox, encoder EventEncoder, evs ...events.DomainEvent) {
	if err := Record(ctx, box, encoder, evs...); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(ctx, "outbox record failed", "events", len(evs), "error", err)
	}
}
