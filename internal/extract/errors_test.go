package extract_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"smartinvoice/internal/extract"
)

func TestNewRateLimitError_DefaultsTo60s(t *testing.T) {
	err := extract.NewRateLimitError("gemini", errors.New("429"), 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)

	err = extract.NewRateLimitError("gemini", errors.New("429"), 30)
	assert.Equal(t, 30*time.Second, err.RetryAfter)
}

func TestRateLimitError_Unwrap(t *testing.T) {
	base := errors.New("too many requests")
	err := extract.NewRateLimitError("claude", base, 10)

	assert.ErrorIs(t, err, base)

	var rlErr *extract.RateLimitError
	assert.True(t, errors.As(error(err), &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, extract.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, extract.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 120, extract.ParseRetryAfterHeader("120"))
}
