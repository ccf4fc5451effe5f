package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "rentcal/internal/app/outbox"
	infraoutbox "rentcal/internal/infra/outbox"
)

type outboxEntry struct {
	record    appoutbox.EventRecord
	sent      bool
	claimed   bool
	attempts  int
	nextRetry time.Time
	lastError string
}

// Outbox keeps event records in memory until a relay worker marks them sent.
// Flush drops the sent ones.
type Outbox struct {
	mu      sync.Mutex
	entries []*outboxEntry
	now     func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: time.Now}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, &outboxEntry{record: record})
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.entries[:0]
	for _, e := range o.entries {
		if !e.sent {
			kept = append(kept, e)
		}
	}
	clear(o.entries[len(kept):])
	o.entries = kept
	return nil
}

// Pending returns the records not yet relayed, oldest first.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]appoutbox.EventRecord, 0, len(o.entries))
	for _, e := range o.entries {
		if !e.sent {
			out = append(out, e.record)
		}
	}
	return out
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.Message, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now()
	for _, e := range o.entries {
		if e.sent || e.claimed || e.nextRetry.After(now) {
			continue
		}
		e.claimed = true
		return &infraoutbox.Message{
			ID:         e.record.ID,
			Name:       e.record.Name,
			Payload:    e.record.Payload,
			OccurredAt: e.record.OccurredAt,
			Aggregate:  e.record.Aggregate,
			Headers:    e.record.Headers,
			Attempts:   e.attempts,
		}, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e := o.find(id); e != nil {
		e.sent = true
		e.claimed = false
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e := o.find(id); e != nil {
		e.claimed = false
		e.attempts++
		e.nextRetry = next
		e.lastError = errMsg
	}
	return nil
}

func (o *Outbox) find(id string) *outboxEntry {
	for _, e := range o.entries {
		if e.record.ID == id {
			return e
		}
	}
	return nil
}

var (
	_ appoutbox.Outbox  = (*Outbox)(nil)
	_ infraoutbox.Queue = (*Outbox)(nil)
)
