package webhook

import "errors"

var (
	ErrSecretNotConfigured    = errors.New("webhook secret not configured")
	ErrInvalidSignatureFormat = errors.New("invalid signature format")
	ErrSignatureMismatch      = errors.New("signature verification failed")
	ErrIPNotAllowed           = errors.New("ip not allowed")
	ErrRateLimited            = errors.New("rate limit exceeded")
	ErrMalformedBody          = errors.New("malformed delivery body")
)
