package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures surfaced by the scraper core.
type ErrorType string

const (
	// ErrorTypeNetwork covers connection failures and timeouts.
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeHTTP covers non-2xx responses; Code carries the status.
	ErrorTypeHTTP ErrorType = "http"
	// ErrorTypeRateLimit is a 429 from the platform.
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeNoEmbeddedState means no known JSON marker was found in the page.
	ErrorTypeNoEmbeddedState ErrorType = "no_embedded_state"
	// ErrorTypeMetadataNotFound means state was present but no known schema path matched.
	ErrorTypeMetadataNotFound ErrorType = "metadata_not_found"
	// ErrorTypeProfileNotFound means a profile page yielded no extractable state.
	ErrorTypeProfileNotFound ErrorType = "profile_not_found"
	// ErrorTypeNoVideosFound means a profile parsed fine but lists zero public videos.
	ErrorTypeNoVideosFound ErrorType = "no_videos_found"
	// ErrorTypeParsing covers malformed JSON payloads.
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error is the typed error carried across the fetch/extract/map pipeline.
type Error struct {
	Type    ErrorType
	Message string
	Code    int // HTTP status when applicable, 0 otherwise
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error without an HTTP status.
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Newf creates a typed error with a formatted message.
func Newf(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// NewHTTP creates an HTTP error for a non-2xx status code.
func NewHTTP(status int, message string) *Error {
	t := ErrorTypeHTTP
	if status == 429 {
		t = ErrorTypeRateLimit
	}
	return &Error{Type: t, Message: message, Code: status}
}

// TypeOf returns the error type of err, or ErrorTypeUnknown for foreign errors.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries the given error type.
func Is(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}

// IsRetryable reports whether an error type is worth retrying.
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit:
		return true
	case ErrorTypeHTTP:
		return false // decided per status via IsRetryableStatusCode
	default:
		return false
	}
}

// IsRetryableStatusCode reports whether an HTTP status indicates a transient failure.
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504:
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500
	}
}
