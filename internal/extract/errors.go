package extract

import (
	"fmt"
	"strconv"
	"time"
)

// defaultRetryAfter is the back-off used when a 429 response carries no
// usable Retry-After header.
const defaultRetryAfter = 60 * time.Second

// RateLimitError is returned when a provider answers HTTP 429. RetryAfter is
// the provider's requested back-off; the extraction retry loop waits it out
// while the record stays in processing.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited, retry after %s: %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// NewRateLimitError builds a RateLimitError from a 429 response.
// retryAfterSecs at or below zero falls back to defaultRetryAfter.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	after := time.Duration(retryAfterSecs) * time.Second
	if after <= 0 {
		after = defaultRetryAfter
	}
	return &RateLimitError{
		Provider:   provider,
		RetryAfter: after,
		Err:        err,
	}
}

// ParseRetryAfterHeader reads a Retry-After header as whole seconds.
// Absent, malformed, or negative values yield 0, which leaves the default
// back-off to NewRateLimitError.
func ParseRetryAfterHeader(val string) int {
	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}
