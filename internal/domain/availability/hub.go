package availability

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Listener receives snapshots for one property. A returned error or a panic
// is logged and does not stop delivery to other listeners.
type Listener func(ctx context.Context, snap Snapshot) error

type subscription struct {
	id uint64
	fn Listener
}

// Hub fans snapshots out to per-property listeners in subscription order.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{subs: make(map[string][]subscription), logger: logger}
}

// Subscribe registers fn and returns a function that removes exactly that
// registration. Calling it more than once is a no-op.
func (h *Hub) Subscribe(propertyID string, fn Listener) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[propertyID] = append(h.subs[propertyID], subscription{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(propertyID, id) })
	}
}

func (h *Hub) remove(propertyID string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.subs[propertyID]
	for i, s := range list {
		if s.id != id {
			continue
		}
		next := make([]subscription, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(h.subs, propertyID)
		} else {
			h.subs[propertyID] = next
		}
		return
	}
}

// Subscribers reports how many listeners are registered for a property.
func (h *Hub) Subscribers(propertyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[propertyID])
}

// Publish delivers snap synchronously. Listeners run outside the hub lock so
// they may unsubscribe themselves.
func (h *Hub) Publish(ctx context.Context, snap Snapshot) {
	h.mu.RLock()
	list := h.subs[snap.PropertyID]
	h.mu.RUnlock()

	for _, s := range list {
		if err := h.deliver(ctx, s, snap); err != nil {
			h.logger.Error("snapshot listener failed",
				"property_id", snap.PropertyID,
				"sequence", snap.Sequence,
				"subscription", s.id,
				"error", err)
		}
	}
}

func (h *Hub) deliver(ctx context.Context, s subscription, snap Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return s.fn(ctx, cloneSnapshot(snap))
}

func cloneSnapshot(s Snapshot) Snapshot {
	s.Bookings = slices.Clone(s.Bookings)
	s.Blocked = slices.Clone(s.Blocked)
	return s
}
