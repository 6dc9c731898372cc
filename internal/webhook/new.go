package webhook

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"webhook-event-log/internal/deadletter"
	"webhook-event-log/internal/eventlog"
	"webhook-event-log/internal/metrics"
	pkgLog "webhook-event-log/pkg/log"
)

// Config carries the optional collaborators of the receiver.
type Config struct {
	Security    SecurityConfig
	Dedup       DedupConfig
	DeadLetters deadletter.Store // nil disables dead-lettering
	Metrics     metrics.Recorder // nil means no metrics
}

type Handler struct {
	store        eventlog.Store
	deadLetters  deadletter.Store
	metrics      metrics.Recorder
	security     *SecurityValidator
	dedup        *deliveryDedup
	githubParser *GitHubWebhookParser
	proxies      []string
	l            pkgLog.Logger
}

func NewHandler(
	store eventlog.Store,
	cfg Config,
	l pkgLog.Logger,
) *Handler {
	rec := cfg.Metrics
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Handler{
		store:        store,
		deadLetters:  cfg.DeadLetters,
		metrics:      rec,
		security:     NewSecurityValidator(cfg.Security),
		dedup:        newDeliveryDedup(cfg.Dedup),
		githubParser: NewGitHubParser(),
		proxies:      cfg.Security.TrustedProxies,
		l:            l,
	}
}

// SignatureRequired reports whether a webhook secret is configured.
func (h *Handler) SignatureRequired() bool {
	return h.security.SignatureRequired()
}

// TrustProxies restricts which peers e accepts forwarding headers from.
// Client IPs feed the allow-list and the read limiter, so with no trusted
// proxies they come from the connection's remote address only.
func (h *Handler) TrustProxies(e *gin.Engine) error {
	if err := e.SetTrustedProxies(h.proxies); err != nil {
		return fmt.Errorf("webhook.TrustProxies: %w", err)
	}
	return nil
}
