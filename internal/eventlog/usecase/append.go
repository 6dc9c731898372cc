package usecase

import (
	"context"

	"webhook-event-log/internal/model"
)

// Append adds event to the end of the log and trims it to capacity in one
// critical section, then flushes the resulting snapshot outside the lock.
func (s *implStore) Append(ctx context.Context, event model.NormalizedEvent) {
	event = event.Clone()
	if event.Commits == nil {
		event.Commits = []model.Commit{}
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	if over := len(s.events) - s.capacity; over > 0 {
		n := copy(s.events, s.events[over:])
		clear(s.events[n:])
		s.events = s.events[:n]
	}
	s.version++
	version := s.version
	snapshot := s.copyLocked()
	s.mu.Unlock()

	s.metrics.IncAppend()
	s.metrics.SetLogSize(len(snapshot))

	// Flush and observers run detached from request cancellation.
	flushCtx := context.WithoutCancel(ctx)
	s.flush(flushCtx, version, snapshot)

	for _, o := range s.observers {
		o.OnAppend(flushCtx, event.Clone())
	}
}

// flush writes snapshot unless a newer version already reached disk.
func (s *implStore) flush(ctx context.Context, version uint64, snapshot []model.NormalizedEvent) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if version <= s.flushed {
		return
	}
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.metrics.IncFlushFailure()
		s.l.Errorf(ctx, "eventlog.flush: version %d: %v", version, err)
		return
	}
	s.flushed = version
}
