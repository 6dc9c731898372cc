package natsbus

import (
	"context"
	"encoding/json"

	"webhook-event-log/internal/eventlog"
	"webhook-event-log/internal/model"
	"webhook-event-log/pkg/log"
)

// DefaultSubject is where appended push events are fanned out.
const DefaultSubject = "webhooks.github.push"

// Bus is the publishing side of a message broker.
type Bus interface {
	Publish(subject string, data []byte) error
}

// Publisher forwards every appended event to a broker subject.
type Publisher struct {
	bus     Bus
	subject string
	l       log.Logger
}

var _ eventlog.Observer = (*Publisher)(nil)

// New creates a publisher for subject, defaulting to DefaultSubject.
func New(l log.Logger, bus Bus, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{bus: bus, subject: subject, l: l}
}

// OnAppend publishes event as JSON. Failures are logged and dropped.
func (p *Publisher) OnAppend(ctx context.Context, event model.NormalizedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "natsbus.OnAppend: marshal %s: %v", event.ID, err)
		return
	}
	if err := p.bus.Publish(p.subject, data); err != nil {
		p.l.Warnf(ctx, "natsbus.OnAppend: %s: %v", event.ID, err)
	}
}
