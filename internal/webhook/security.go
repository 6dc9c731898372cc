package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// SecurityValidator validates webhook requests
type SecurityValidator struct {
	config      SecurityConfig
	allowed     []*net.IPNet
	rateLimiter *rateLimiter
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	v := &SecurityValidator{config: config}
	for _, entry := range config.AllowedIPs {
		if ipNet := parseAllowed(entry); ipNet != nil {
			v.allowed = append(v.allowed, ipNet)
		}
	}
	if config.ReadRateLimitPerMin > 0 {
		v.rateLimiter = newRateLimiter(config.ReadRateLimitPerMin)
	}
	return v
}

// SignatureRequired reports whether deliveries must carry a valid signature.
func (v *SecurityValidator) SignatureRequired() bool {
	return v.config.Secret != ""
}

// ValidateGitHubSignature verifies GitHub webhook signature
func (v *SecurityValidator) ValidateGitHubSignature(payload []byte, signature string) error {
	if v.config.Secret == "" {
		return ErrSecretNotConfigured
	}

	// GitHub sends signature as "sha256=<hex>"
	hexSig, ok := strings.CutPrefix(signature, "sha256=")
	if !ok {
		return ErrInvalidSignatureFormat
	}

	expectedSig, err := hex.DecodeString(hexSig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignatureFormat, err)
	}

	mac := hmac.New(sha256.New, []byte(v.config.Secret))
	mac.Write(payload)
	actualSig := mac.Sum(nil)

	// Constant-time comparison on raw bytes
	if !hmac.Equal(expectedSig, actualSig) {
		return ErrSignatureMismatch
	}

	return nil
}

// ValidateIPAddress checks ip against the allow-list. An empty list allows all.
func (v *SecurityValidator) ValidateIPAddress(ip string) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil
	}

	parsed := net.ParseIP(ip)
	if parsed != nil {
		for _, ipNet := range v.allowed {
			if ipNet.Contains(parsed) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s", ErrIPNotAllowed, ip)
}

// CheckReadRateLimit enforces the per-client snapshot read limit.
func (v *SecurityValidator) CheckReadRateLimit(clientIP string) error {
	if v.rateLimiter == nil {
		return nil
	}
	return v.rateLimiter.Allow(clientIP)
}

// parseAllowed accepts a bare IP or a CIDR range; invalid entries are skipped.
func parseAllowed(entry string) *net.IPNet {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil
		}
		return ipNet
	}

	ip := net.ParseIP(entry)
	if ip == nil {
		return nil
	}
	bits := 128
	if ip.To4() != nil {
		ip = ip.To4()
		bits = 32
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
}

// rateLimiter keeps one token bucket per key, expiring idle keys.
type rateLimiter struct {
	// mu makes lookup-or-create atomic per key.
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,          // Max 1000 unique sources
			nil,           // No eviction callback
			time.Minute*5, // TTL: 5 minutes
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0), // Per second
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key string) error {
	if !rl.limiter(key).Allow() {
		return fmt.Errorf("%w for %s", ErrRateLimited, key)
	}
	return nil
}

func (rl *rateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	return limiter
}
