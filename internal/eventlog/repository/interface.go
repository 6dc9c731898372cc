package repository

import (
	"context"

	"webhook-event-log/internal/model"
)

// Repository persists the full event log as a single unit.
type Repository interface {
	// Load returns the last persisted log. A missing log is not an error.
	Load(ctx context.Context) ([]model.NormalizedEvent, error)
	// Save atomically replaces the persisted log with events.
	Save(ctx context.Context, events []model.NormalizedEvent) error
}
