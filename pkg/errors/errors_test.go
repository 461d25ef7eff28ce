package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrorTypeNetwork, "connection refused")
	assert.Equal(t, "network error: connection refused", err.Error())

	httpErr := NewHTTP(503, "bad gateway day")
	assert.Equal(t, "http error (status 503): bad gateway day", httpErr.Error())
}

func TestNewHTTPClassifies429AsRateLimit(t *testing.T) {
	err := NewHTTP(429, "slow down")
	assert.Equal(t, ErrorTypeRateLimit, err.Type)
	assert.Equal(t, 429, err.Code)

	err = NewHTTP(404, "missing")
	assert.Equal(t, ErrorTypeHTTP, err.Type)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeParsing, TypeOf(New(ErrorTypeParsing, "bad json")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(fmt.Errorf("plain error")))

	// Wrapped typed errors still classify.
	wrapped := fmt.Errorf("context: %w", New(ErrorTypeRateLimit, "429"))
	assert.Equal(t, ErrorTypeRateLimit, TypeOf(wrapped))
}

func TestIs(t *testing.T) {
	err := New(ErrorTypeNoEmbeddedState, "nothing here")
	assert.True(t, Is(err, ErrorTypeNoEmbeddedState))
	assert.False(t, Is(err, ErrorTypeNetwork))
	assert.False(t, Is(fmt.Errorf("plain"), ErrorTypeNoEmbeddedState))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrorTypeNetwork))
	assert.True(t, IsRetryable(ErrorTypeRateLimit))
	assert.False(t, IsRetryable(ErrorTypeHTTP))
	assert.False(t, IsRetryable(ErrorTypeNoEmbeddedState))
	assert.False(t, IsRetryable(ErrorTypeMetadataNotFound))
	assert.False(t, IsRetryable(ErrorTypeParsing))
}

func TestIsRetryableStatusCode(t *testing.T) {
	retryable := []int{0, 429, 500, 502, 503, 504, 599}
	for _, code := range retryable {
		assert.True(t, IsRetryableStatusCode(code), "status %d", code)
	}

	permanent := []int{400, 401, 403, 404, 200}
	for _, code := range permanent {
		assert.False(t, IsRetryableStatusCode(code), "status %d", code)
	}
}
