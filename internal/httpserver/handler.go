package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"webhook-event-log/internal/middleware"
	"webhook-event-log/internal/model"
	"webhook-event-log/internal/webhook"
)

func (srv HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(middleware.New(srv.l).RequestLogger())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "Environment: production")
	} else {
		srv.l.Infof(ctx, "Environment: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	if srv.metricsHandler != nil {
		srv.gin.GET("/metrics", gin.WrapH(srv.metricsHandler))
	}

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers the webhook receiver and the plain-text fallbacks.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	webhook.RegisterRoutes(srv.gin, srv.webhookHandler)
	webhook.RegisterFallbacks(srv.gin)
	srv.l.Infof(ctx, "GitHub webhook routes registered at %s and %s", webhook.PathWebhook, webhook.PathAPIEvents)

	if !srv.webhookHandler.SignatureRequired() {
		srv.l.Warnf(ctx, "Webhook secret not configured: deliveries are accepted without signature verification")
	}
}
