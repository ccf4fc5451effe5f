package availability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// propertyLock serializes mutations of one property. Committed snapshots
// queue in pending and are delivered by whichever committer finds no drain
// in progress, so listeners never run under a lock the mutation path needs.
type propertyLock struct {
	sem *semaphore.Weighted
	seq uint64

	mu         sync.Mutex
	pending    []Snapshot
	delivering bool
}

// enqueue must be called while holding sem, which fixes commit order.
func (pl *propertyLock) enqueue(snap Snapshot) {
	pl.mu.Lock()
	pl.pending = append(pl.pending, snap)
	pl.mu.Unlock()
}

// drain publishes queued snapshots oldest first. When another caller is
// already draining it returns at once; that caller delivers the rest before
// it stops.
func (pl *propertyLock) drain(ctx context.Context, publish func(context.Context, Snapshot)) {
	pl.mu.Lock()
	if pl.delivering {
		pl.mu.Unlock()
		return
	}
	pl.delivering = true
	defer func() {
		pl.delivering = false
		pl.mu.Unlock()
	}()
	for len(pl.pending) > 0 {
		next := pl.pending[0]
		pl.pending[0] = Snapshot{}
		pl.pending = pl.pending[1:]
		pl.mu.Unlock()
		publish(ctx, next)
		pl.mu.Lock()
	}
}

type guard struct {
	mu    sync.Mutex
	locks map[string]*propertyLock
}

func newGuard() *guard {
	return &guard{locks: make(map[string]*propertyLock)}
}

func (g *guard) lockFor(propertyID string) *propertyLock {
	g.mu.Lock()
	defer g.mu.Unlock()
	pl, ok := g.locks[propertyID]
	if !ok {
		pl = &propertyLock{sem: semaphore.NewWeighted(1)}
		g.locks[propertyID] = pl
	}
	return pl
}

// acquire waits for the property's exclusion guarantee. The wait ends with
// ErrBusy when timeout elapses or ctx is done first.
func (g *guard) acquire(ctx context.Context, propertyID string, timeout time.Duration) (*propertyLock, error) {
	pl := g.lockFor(propertyID)
	if pl.sem.TryAcquire(1) {
		return pl, nil
	}
	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := pl.sem.Acquire(waitCtx, 1); err != nil {
		return nil, fmt.Errorf("%w: property %s: %w", ErrBusy, propertyID, err)
	}
	return pl, nil
}
