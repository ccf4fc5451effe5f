package memory

import (
	"context"
	"sync"
	"time"

	"rentcal/internal/app/middleware"
)

// IdempotencyStore keeps command results in memory. Records older than the
// retention are treated as absent and dropped on the next save.
type IdempotencyStore struct {
	mu        sync.RWMutex
	items     map[string]middleware.IdempotencyRecord
	retention time.Duration
	now       func() time.Time
}

// NewIdempotencyStore keeps records for retention; zero keeps them forever.
func NewIdempotencyStore(retention time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		items:     make(map[string]middleware.IdempotencyRecord),
		retention: retention,
		now:       time.Now,
	}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.items[key]
	if !ok || s.expired(rec) {
		return middleware.IdempotencyRecord{}, false, nil
	}
	return rec, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, old := range s.items {
		if s.expired(old) {
			delete(s.items, k)
		}
	}
	s.items[rec.Key] = rec
	return nil
}

func (s *IdempotencyStore) expired(rec middleware.IdempotencyRecord) bool {
	return s.retention > 0 && s.now().Sub(rec.OccurredAt) > s.retention
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
