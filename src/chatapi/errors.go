package chatapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes the server uses in error responses and stream error events.
const (
	CodeQuotaExceeded = "quota_exceeded"
	CodeServiceError  = "service_error"
	CodeUnknown       = "unknown"
)

var (
	// ErrNoToken indicates the API token is missing.
	ErrNoToken = errors.New("API token is required")

	// ErrQuotaExceeded indicates the account has no sends remaining.
	ErrQuotaExceeded = errors.New("chat quota exhausted")

	// ErrStreamClosed indicates the stream ended before a terminal event.
	ErrStreamClosed = errors.New("stream closed before completion")
)

// APIError is a structured error response from a non-streaming endpoint.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("chat API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("chat API error %d: %s", e.StatusCode, e.Message)
}

// IsQuota returns true if the server rejected the request for quota reasons.
func (e *APIError) IsQuota() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Code == CodeQuotaExceeded
}

// IsRetryable returns true if the request may succeed on retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// Is allows quota API errors to match ErrQuotaExceeded.
func (e *APIError) Is(target error) bool {
	return target == ErrQuotaExceeded && e.IsQuota()
}

// StreamError is a structured failure reported through the stream's error
// event. Code is one of the Code* constants.
type StreamError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error (%s): %s", e.Code, e.Message)
}

// IsQuota returns true if the exchange was rejected for quota reasons.
func (e *StreamError) IsQuota() bool {
	return e.Code == CodeQuotaExceeded
}

// Is allows quota stream errors to match ErrQuotaExceeded.
func (e *StreamError) Is(target error) bool {
	return target == ErrQuotaExceeded && e.IsQuota()
}

// errorResponse matches the service's error body: {"error":{"code":...,"message":...}}
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
