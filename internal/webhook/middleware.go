package webhook

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware embeds the receiver into another server's handler chain: webhook
// paths are served here, every other request goes to next.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	if err := h.TrustProxies(engine); err != nil {
		h.l.Errorf(context.Background(), "webhook.Middleware: %v; ignoring forwarding headers", err)
		_ = engine.SetTrustedProxies(nil)
	}
	RegisterRoutes(engine, h)
	RegisterFallbacks(engine)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsWebhookPath(r.URL.Path) {
			engine.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
