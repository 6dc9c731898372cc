package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"webhook-event-log/internal/deadletter"
	"webhook-event-log/internal/metrics"
	"webhook-event-log/internal/model"
	pkgResponse "webhook-event-log/pkg/response"
)

// HandleGitHubWebhook processes GitHub webhook deliveries.
// @Summary     Receive a GitHub webhook delivery
// @Description Classifies the delivery by X-GitHub-Event and appends push events to the log. Always answers 200.
// @Tags        Webhooks
// @Accept      json
// @Accept      x-www-form-urlencoded
// @Produce     plain
// @Param       X-GitHub-Event      header string true  "Event kind (push, ping, ...)"
// @Param       X-GitHub-Delivery   header string false "Delivery GUID"
// @Param       X-Hub-Signature-256 header string false "HMAC-SHA256 signature"
// @Success     200 {string} string "OK or Pong!"
// @Router      /webhooks/github [post]
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	// Body is read in full before any store interaction.
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		h.l.Errorf(ctx, "webhook.HandleGitHubWebhook: failed to read body: %v", err)
		body = nil
	}

	eventType := c.GetHeader(HeaderEvent)
	deliveryID := c.GetHeader(HeaderDelivery)
	contentType := c.GetHeader(HeaderContentType)

	reject := func(reason deadletter.Reason, cause error) {
		h.l.Warnf(ctx, "webhook.HandleGitHubWebhook: rejected delivery %q (%s): %v", deliveryID, eventType, cause)
		h.metrics.IncDelivery(eventType, metrics.OutcomeRejected)
		h.recordDeadLetter(ctx, deadletter.Letter{
			DeliveryID:  deliveryID,
			EventType:   eventType,
			Reason:      reason,
			ContentType: contentType,
			Payload:     string(body),
		})
		pkgResponse.Text(c, http.StatusOK, AckOK)
	}

	if err := h.security.ValidateIPAddress(c.ClientIP()); err != nil {
		reject(deadletter.ReasonForbiddenIP, err)
		return
	}

	if h.security.SignatureRequired() {
		if err := h.security.ValidateGitHubSignature(body, c.GetHeader(HeaderSignature)); err != nil {
			reject(deadletter.ReasonInvalidSignature, err)
			return
		}
	}

	switch model.EventType(eventType) {
	case model.EventTypePing:
		h.l.Infof(ctx, "webhook.HandleGitHubWebhook: ping %q", deliveryID)
		h.metrics.IncDelivery(eventType, metrics.OutcomePong)
		pkgResponse.Text(c, http.StatusOK, AckPong)
		return

	case model.EventTypePush:
		// handled below

	default:
		h.l.Infof(ctx, "webhook.HandleGitHubWebhook: ignoring event %q", eventType)
		h.metrics.IncDelivery(eventType, metrics.OutcomeIgnored)
		pkgResponse.Text(c, http.StatusOK, AckOK)
		return
	}

	if !h.dedup.FirstSeen(deliveryID) {
		h.l.Infof(ctx, "webhook.HandleGitHubWebhook: duplicate delivery %q", deliveryID)
		h.metrics.IncDelivery(eventType, metrics.OutcomeDuplicate)
		pkgResponse.Text(c, http.StatusOK, AckOK)
		return
	}

	payload, err := parseBody(contentType, body)
	if err != nil {
		h.l.Warnf(ctx, "webhook.HandleGitHubWebhook: delivery %q: %v", deliveryID, err)
		h.recordDeadLetter(ctx, deadletter.Letter{
			DeliveryID:  deliveryID,
			EventType:   eventType,
			Reason:      deadletter.ReasonMalformedBody,
			ContentType: contentType,
			Payload:     string(body),
		})
	}

	event := h.githubParser.ParsePushEvent(payload)
	h.store.Append(ctx, event)
	h.metrics.IncDelivery(eventType, metrics.OutcomeAppended)
	h.l.Infof(ctx, "webhook.HandleGitHubWebhook: push %s@%s by %s (%d commits)",
		event.Repository, event.Branch, event.Author, len(event.Commits))

	pkgResponse.Text(c, http.StatusOK, AckOK)
}

// HandleListEvents returns the current log.
// @Summary     List recent events
// @Description Returns the bounded event log as a JSON array in append order (newest last).
// @Tags        Webhooks
// @Produce     json
// @Success     200 {array}  model.NormalizedEvent
// @Failure     429 {string} string "Too Many Requests"
// @Router      /api/webhooks/github [get]
func (h *Handler) HandleListEvents(c *gin.Context) {
	if err := h.security.CheckReadRateLimit(c.ClientIP()); err != nil {
		h.l.Warnf(c.Request.Context(), "webhook.HandleListEvents: %v", err)
		pkgResponse.TooManyRequests(c)
		return
	}
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// HandleListDeadLetters returns the newest dead-lettered deliveries.
// @Summary     List dead letters
// @Description Deliveries that were acknowledged but rejected or malformed, newest first.
// @Tags        Webhooks
// @Produce     json
// @Param       limit query int false "Max letters (default 50, max 500)"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/webhooks/github/dead-letters [get]
func (h *Handler) HandleListDeadLetters(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processListDeadLettersReq(c)
	if err != nil {
		pkgResponse.Error(c, err, nil)
		return
	}

	if h.deadLetters == nil {
		pkgResponse.OK(c, newDeadLettersResp(nil))
		return
	}

	letters, err := h.deadLetters.List(ctx, req.Limit)
	if err != nil {
		h.l.Errorf(ctx, "webhook.HandleListDeadLetters: %v", err)
		pkgResponse.InternalError(c, err)
		return
	}
	pkgResponse.OK(c, newDeadLettersResp(letters))
}

// recordDeadLetter stores l; failures are diagnostics only.
func (h *Handler) recordDeadLetter(ctx context.Context, l deadletter.Letter) {
	if h.deadLetters == nil {
		return
	}
	l.ReceivedAt = time.Now().UTC()
	if err := h.deadLetters.Record(context.WithoutCancel(ctx), l); err != nil {
		h.l.Errorf(ctx, "webhook.recordDeadLetter: %v", err)
		return
	}
	h.metrics.IncDeadLetter(string(l.Reason))
}

// methodNotAllowed answers any unsupported method on a webhook path.
func methodNotAllowed(c *gin.Context) {
	pkgResponse.MethodNotAllowed(c)
}

// notFound is the catch-all for unknown paths.
func notFound(c *gin.Context) {
	pkgResponse.NotFound(c)
}

var errInvalidLimit = errors.New("limit must be between 1 and 500")
