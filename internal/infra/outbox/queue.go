package outbox

import (
	"context"
	"time"
)

// Message is a claimed outbox record on its way to the broker.
type Message struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
	Attempts   int
}

// Queue is the relay side of an outbox. Claim returns nil when nothing is due.
type Queue interface {
	Claim(ctx context.Context, workerID string) (*Message, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}
