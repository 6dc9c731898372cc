package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"webhook-event-log/config"
	"webhook-event-log/internal/model"
	"webhook-event-log/pkg/log"
	"webhook-event-log/pkg/natsbus"
)

// main tails the events fanned out by the API over NATS and logs each one.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting consumer service...")

	if cfg.NATS.URL == "" {
		logger.Error(ctx, "nats.url is required for the consumer")
		return
	}

	client, err := natsbus.Connect(cfg.NATS.URL, "webhook-event-log-consumer")
	if err != nil {
		logger.Error(ctx, "Failed to connect to NATS: ", err)
		return
	}
	defer client.Close()

	err = client.Subscribe(cfg.NATS.Subject, func(data []byte) {
		var event model.NormalizedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			logger.Warnf(ctx, "Skipping undecodable message: %v", err)
			return
		}
		logger.Infof(ctx, "push %s@%s by %s: %d commits (event %s, received %s)",
			event.Repository, event.Branch, event.Author, len(event.Commits), event.ID, event.ReceivedAt)
	})
	if err != nil {
		logger.Error(ctx, "Failed to subscribe: ", err)
		return
	}

	logger.Infof(ctx, "Consumer listening on %q. Waiting for shutdown signal...", cfg.NATS.Subject)
	<-ctx.Done()
	logger.Info(context.WithoutCancel(ctx), "Consumer service stopped gracefully")
}
