package webhook

import "time"

// Route paths served by both transport adapters.
const (
	PathWebhook     = "/webhooks/github"
	PathAPIEvents   = "/api/webhooks/github"
	PathDeadLetters = "/api/webhooks/github/dead-letters"
)

// GitHub delivery headers.
const (
	HeaderEvent       = "X-GitHub-Event"
	HeaderDelivery    = "X-GitHub-Delivery"
	HeaderSignature   = "X-Hub-Signature-256"
	HeaderContentType = "Content-Type"
)

// Acknowledgment bodies.
const (
	AckOK   = "OK"
	AckPong = "Pong!"
)

// MaxBodyBytes matches GitHub's documented payload cap.
const MaxBodyBytes = 25 << 20

// SecurityConfig holds webhook security settings.
type SecurityConfig struct {
	Secret              string   // Shared secret for signature verification; empty disables it
	AllowedIPs          []string // IP or CIDR allow-list for deliveries (optional)
	TrustedProxies      []string // Proxies whose X-Forwarded-For is honoured; empty uses the peer address
	ReadRateLimitPerMin int      // Snapshot reads per client IP per minute; <= 0 disables
}

// DedupConfig bounds the delivery-id memory.
type DedupConfig struct {
	Size int
	TTL  time.Duration
}

const (
	DefaultDedupSize = 10000
	DefaultDedupTTL  = 24 * time.Hour
)
