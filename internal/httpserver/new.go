package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"webhook-event-log/internal/webhook"
	"webhook-event-log/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Webhook receiver
	webhookHandler *webhook.Handler

	// Prometheus exposition; nil disables /metrics
	metricsHandler http.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Port        int
	Mode        string
	Environment string

	WebhookHandler *webhook.Handler
	MetricsHandler http.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.New(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		webhookHandler: cfg.WebhookHandler,
		metricsHandler: cfg.MetricsHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	if err := srv.webhookHandler.TrustProxies(srv.gin); err != nil {
		return nil, err
	}

	srv.mapHandlers()

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.webhookHandler == nil {
		return errors.New("webhook handler is required")
	}
	return nil
}
