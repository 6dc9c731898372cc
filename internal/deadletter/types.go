// Package deadletter keeps deliveries that were acknowledged but could not be
// turned into log records, so they can be inspected or replayed by hand.
package deadletter

import "time"

// Reason says why a delivery was dead-lettered.
type Reason string

const (
	ReasonMalformedBody    Reason = "malformed_body"
	ReasonInvalidSignature Reason = "invalid_signature"
	ReasonForbiddenIP      Reason = "forbidden_ip"
)

// MaxPayloadBytes caps the stored body; longer payloads are truncated.
const MaxPayloadBytes = 64 * 1024

// Letter is one dead-lettered delivery.
type Letter struct {
	ID          int64     `json:"id"`
	DeliveryID  string    `json:"deliveryId"`
	EventType   string    `json:"eventType"`
	Reason      Reason    `json:"reason"`
	ContentType string    `json:"contentType"`
	Payload     string    `json:"payload"`
	Truncated   bool      `json:"truncated"`
	ReceivedAt  time.Time `json:"receivedAt"`
}
