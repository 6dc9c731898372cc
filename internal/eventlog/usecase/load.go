package usecase

import (
	"context"
	"fmt"
)

// Load seeds the store from the repository, keeping the newest records up to
// capacity. It must be called before the store starts serving appends.
func (s *implStore) Load(ctx context.Context) error {
	events, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("eventlog.Load: %w", err)
	}
	if over := len(events) - s.capacity; over > 0 {
		events = events[over:]
	}

	s.mu.Lock()
	s.events = append(s.events[:0], events...)
	size := len(s.events)
	s.mu.Unlock()

	s.metrics.SetLogSize(size)
	s.l.Infof(ctx, "eventlog.Load: restored %d events", size)
	return nil
}
