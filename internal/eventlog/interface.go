package eventlog

import (
	"context"

	"webhook-event-log/internal/model"
)

// Store is the bounded, append-ordered log of normalized events.
//
//go:generate mockery --name Store
type Store interface {
	// Append adds event at the end of the log, evicting the oldest records
	// beyond capacity, and persists the result. Persistence failures are
	// diagnostics only; the in-memory log stays authoritative.
	Append(ctx context.Context, event model.NormalizedEvent)
	// Snapshot returns a point-in-time copy of the log in append order.
	Snapshot() []model.NormalizedEvent
}

// Observer is notified after each successful in-memory append.
type Observer interface {
	OnAppend(ctx context.Context, event model.NormalizedEvent)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx context.Context, event model.NormalizedEvent)

func (f ObserverFunc) OnAppend(ctx context.Context, event model.NormalizedEvent) { f(ctx, event) }
