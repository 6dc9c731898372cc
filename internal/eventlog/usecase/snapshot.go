package usecase

import "webhook-event-log/internal/model"

// Snapshot returns a deep copy of the log in append order. It never touches disk.
func (s *implStore) Snapshot() []model.NormalizedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *implStore) copyLocked() []model.NormalizedEvent {
	out := make([]model.NormalizedEvent, len(s.events))
	for i, e := range s.events {
		out[i] = e.Clone()
	}
	return out
}
