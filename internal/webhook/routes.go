package webhook

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps the webhook and read paths onto r.
func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.POST(PathWebhook, h.HandleGitHubWebhook)
	r.GET(PathWebhook, h.HandleListEvents)
	r.GET(PathAPIEvents, h.HandleListEvents)
	r.GET(PathDeadLetters, h.HandleListDeadLetters)
}

// RegisterFallbacks installs the plain-text 405 and 404 responses.
func RegisterFallbacks(e *gin.Engine) {
	e.HandleMethodNotAllowed = true
	e.NoMethod(methodNotAllowed)
	e.NoRoute(notFound)
}

// IsWebhookPath reports whether path belongs to this receiver.
func IsWebhookPath(path string) bool {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	switch path {
	case PathWebhook, PathAPIEvents, PathDeadLetters:
		return true
	}
	return false
}
