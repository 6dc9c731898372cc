package deadletter

import (
	"context"
	"time"
)

// Store persists dead letters.
type Store interface {
	Record(ctx context.Context, l Letter) error
	// List returns the newest letters first, at most limit of them.
	List(ctx context.Context, limit int) ([]Letter, error)
	// Prune deletes letters received before cutoff and reports how many went.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
