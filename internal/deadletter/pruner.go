package deadletter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"webhook-event-log/pkg/log"
)

// DefaultPruneInterval is how often the retention job runs.
const DefaultPruneInterval = time.Hour

// Pruner periodically drops letters older than the retention window.
type Pruner struct {
	scheduler gocron.Scheduler
	store     Store
	retention time.Duration
	now       func() time.Time
	l         log.Logger
}

// NewPruner creates a pruner; call Start to schedule it.
func NewPruner(store Store, retention time.Duration, l log.Logger) (*Pruner, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Pruner{
		scheduler: s,
		store:     store,
		retention: retention,
		now:       time.Now,
		l:         l,
	}, nil
}

// Start schedules the retention job every interval and starts the scheduler.
func (p *Pruner) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}
	_, err := p.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(p.PruneOnce, ctx),
		gocron.WithName("dead-letter-retention"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create dead-letter retention job: %w", err)
	}
	p.scheduler.Start()
	p.l.Infof(ctx, "deadletter.Pruner: retention %s, every %s", p.retention, interval)
	return nil
}

// PruneOnce deletes letters older than the retention window.
func (p *Pruner) PruneOnce(ctx context.Context) {
	cutoff := p.now().Add(-p.retention)
	n, err := p.store.Prune(ctx, cutoff)
	if err != nil {
		p.l.Errorf(ctx, "deadletter.PruneOnce: %v", err)
		return
	}
	if n > 0 {
		p.l.Infof(ctx, "deadletter.PruneOnce: removed %d letters older than %s", n, cutoff.Format(time.RFC3339))
	}
}

// Stop shuts the scheduler down.
func (p *Pruner) Stop() error {
	return p.scheduler.Shutdown()
}
