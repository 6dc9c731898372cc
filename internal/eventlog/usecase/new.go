package usecase

import (
	"sync"

	"webhook-event-log/internal/eventlog"
	"webhook-event-log/internal/eventlog/repository"
	"webhook-event-log/internal/metrics"
	"webhook-event-log/internal/model"
	"webhook-event-log/pkg/log"
)

// Option configures the store.
type Option func(*implStore)

// WithCapacity overrides eventlog.DefaultCapacity. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(s *implStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *implStore) {
		if r != nil {
			s.metrics = r
		}
	}
}

// WithObservers registers observers notified after each append.
func WithObservers(obs ...eventlog.Observer) Option {
	return func(s *implStore) { s.observers = append(s.observers, obs...) }
}

// implStore is the private implementation of eventlog.Store.
type implStore struct {
	// mu guards events and version. It is never held across I/O.
	mu       sync.Mutex
	events   []model.NormalizedEvent
	version  uint64
	capacity int

	// flushMu serializes writes; flushed is the last version on disk.
	flushMu sync.Mutex
	flushed uint64

	repo      repository.Repository
	observers []eventlog.Observer
	metrics   metrics.Recorder
	l         log.Logger
}

var _ eventlog.Store = (*implStore)(nil)

// New creates an empty store backed by repo. Call Load to seed it from disk.
func New(l log.Logger, repo repository.Repository, opts ...Option) *implStore {
	s := &implStore{
		capacity: eventlog.DefaultCapacity,
		events:   make([]model.NormalizedEvent, 0, eventlog.DefaultCapacity),
		repo:     repo,
		metrics:  metrics.NoopRecorder{},
		l:        l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
