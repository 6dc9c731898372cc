package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"webhook-event-log/config"
	_ "webhook-event-log/docs" // Swagger docs
	"webhook-event-log/internal/deadletter"
	"webhook-event-log/internal/eventlog"
	eventNATS "webhook-event-log/internal/eventlog/delivery/natsbus"
	"webhook-event-log/internal/eventlog/repository/file"
	"webhook-event-log/internal/eventlog/usecase"
	"webhook-event-log/internal/httpserver"
	"webhook-event-log/internal/metrics"
	"webhook-event-log/internal/webhook"
	"webhook-event-log/pkg/log"
	"webhook-event-log/pkg/natsbus"
)

// @title       GitHub Webhook Event Log API
// @description Receives GitHub webhook deliveries and serves a bounded log of recent push events.
// @version     1
// @host        localhost:3001
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting GitHub webhook event log...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Metrics
	recorder := metrics.NewPrometheusRecorder(prometheus.NewRegistry())

	// 4. Event fan-out (optional)
	var observers []eventlog.Observer
	if cfg.NATS.URL != "" {
		natsClient, natsErr := natsbus.Connect(cfg.NATS.URL, "webhook-event-log")
		if natsErr != nil {
			logger.Warnf(ctx, "NATS not available (optional): %v", natsErr)
		} else {
			defer natsClient.Close()
			observers = append(observers, eventNATS.New(logger, natsClient, cfg.NATS.Subject))
			logger.Infof(ctx, "Publishing appended events to NATS subject %q", cfg.NATS.Subject)
		}
	}

	// 5. Event log store
	repo := file.New(cfg.EventLog.DataDir, cfg.EventLog.FileName)
	store := usecase.New(logger, repo,
		usecase.WithCapacity(cfg.EventLog.Capacity),
		usecase.WithMetrics(recorder),
		usecase.WithObservers(observers...),
	)
	if err := store.Load(ctx); err != nil {
		logger.Warnf(ctx, "Starting with an empty event log: %v", err)
	}
	logger.Infof(ctx, "Event log at %s (%d events, capacity %d)", repo.Path(), len(store.Snapshot()), cfg.EventLog.Capacity)

	// 6. Dead letters (optional)
	var deadLetters deadletter.Store
	if cfg.DeadLetter.Enabled {
		sqliteStore, dlErr := deadletter.NewSQLiteStore(cfg.DeadLetter.Path)
		if dlErr != nil {
			logger.Warnf(ctx, "Dead-letter store not available (optional): %v", dlErr)
		} else {
			defer sqliteStore.Close()
			deadLetters = sqliteStore

			pruner, prErr := deadletter.NewPruner(sqliteStore, cfg.DeadLetter.Retention, logger)
			if prErr == nil {
				prErr = pruner.Start(ctx, deadletter.DefaultPruneInterval)
			}
			if prErr != nil {
				logger.Warnf(ctx, "Dead-letter retention disabled: %v", prErr)
			} else {
				defer pruner.Stop()
			}
		}
	}

	// 7. Webhook receiver
	webhookHandler := webhook.NewHandler(store, webhook.Config{
		Security: webhook.SecurityConfig{
			Secret:              cfg.Webhook.Secret,
			AllowedIPs:          cfg.Webhook.AllowedIPs,
			TrustedProxies:      cfg.Webhook.TrustedProxies,
			ReadRateLimitPerMin: cfg.Webhook.ReadRateLimitPerMin,
		},
		Dedup: webhook.DedupConfig{
			Size: cfg.Webhook.DedupSize,
			TTL:  cfg.Webhook.DedupTTL,
		},
		DeadLetters: deadLetters,
		Metrics:     recorder,
	}, logger)

	// 8. Public URL via ngrok (optional)
	if cfg.Ngrok.APIURL != "" {
		go func() {
			ngrokURL, ngrokErr := detectNgrokURL(ctx, cfg.Ngrok.APIURL)
			if ngrokErr != nil {
				logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
				return
			}
			logger.Infof(ctx, "Configure the GitHub webhook payload URL as %s%s", ngrokURL, webhook.PathWebhook)
		}()
	}

	// 9. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
		MetricsHandler: recorder.Handler(),
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(context.WithoutCancel(ctx), "Server stopped gracefully")
}
