package clubspot

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey indicates the client was invoked without credentials.
	// This is a configuration problem: it is never retried.
	ErrMissingAPIKey = errors.New("missing Clubspot API key (CLUBSPOT_API_KEY)")

	// ErrExhaustedRetries indicates the attempt cap was reached without a
	// terminal response (every attempt was consumed by rate limiting).
	ErrExhaustedRetries = errors.New("clubspot request failed after retries")
)

// AuthError indicates Clubspot rejected the API key (401/403). The request is
// not retried: retrying with the same credentials cannot succeed.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("invalid Clubspot API key or unauthorized request (%d)", e.Status)
}

// UpstreamError is a non-2xx response from Clubspot that is not retryable
// rate limiting or auth rejection. Transient reports whether the status was a
// 5xx that exhausted its retry budget.
type UpstreamError struct {
	Status    int
	Body      string
	Transient bool
}

func (e *UpstreamError) Error() string {
	if e.Transient {
		return fmt.Sprintf("Clubspot API downtime (%d)", e.Status)
	}
	return fmt.Sprintf("Clubspot API error %d: %s", e.Status, e.Body)
}
