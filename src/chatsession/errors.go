package chatsession

import (
	"context"
	"errors"
	"fmt"

	"github.com/tradewind/stockchat/src/chatapi"
)

var (
	// ErrQuotaExceeded indicates the quota gate (or the server) rejected a
	// send for quota reasons. The user should wait or upgrade, not retry.
	ErrQuotaExceeded = errors.New("chat quota exhausted")

	// ErrSendInFlight indicates a send was attempted while another exchange
	// is streaming. Callers must wait for or cancel the active exchange.
	ErrSendInFlight = errors.New("a send is already in progress")
)

// SendKind classifies a failed send for presentation purposes.
type SendKind int

const (
	// SendKindUnknown covers network failures and malformed payloads;
	// conservatively retryable.
	SendKindUnknown SendKind = iota
	// SendKindQuota means quota exhaustion, reported pre-flight or by the
	// server.
	SendKindQuota
	// SendKindService means the backing service failed; worth a retry.
	SendKindService
	// SendKindCancelled means the user aborted the exchange; a silent state
	// reset, not an error to surface.
	SendKindCancelled
)

// String returns the kind's name.
func (k SendKind) String() string {
	switch k {
	case SendKindQuota:
		return "quota"
	case SendKindService:
		return "service"
	case SendKindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// SendError is a classified failure from SendMessage. Local optimistic state
// is always cleaned up before one of these is returned.
type SendError struct {
	Kind SendKind
	Err  error
}

// Error implements the error interface.
func (e *SendError) Error() string {
	return fmt.Sprintf("send failed (%s): %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *SendError) Unwrap() error {
	return e.Err
}

// Is bridges quota sends to ErrQuotaExceeded and cancelled sends to
// context.Canceled.
func (e *SendError) Is(target error) bool {
	switch target {
	case ErrQuotaExceeded:
		return e.Kind == SendKindQuota
	case context.Canceled:
		return e.Kind == SendKindCancelled
	}
	return false
}

// IsCancelled reports whether err represents a user-aborted send.
func IsCancelled(err error) bool {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Kind == SendKindCancelled
	}
	return errors.Is(err, context.Canceled)
}

// classifySendError maps a streaming failure onto the send taxonomy.
func classifySendError(err error) *SendError {
	if errors.Is(err, context.Canceled) {
		return &SendError{Kind: SendKindCancelled, Err: err}
	}

	var streamErr *chatapi.StreamError
	if errors.As(err, &streamErr) {
		switch streamErr.Code {
		case chatapi.CodeQuotaExceeded:
			return &SendError{Kind: SendKindQuota, Err: err}
		case chatapi.CodeServiceError:
			return &SendError{Kind: SendKindService, Err: err}
		}
		return &SendError{Kind: SendKindUnknown, Err: err}
	}

	var apiErr *chatapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsQuota() {
			return &SendError{Kind: SendKindQuota, Err: err}
		}
		if apiErr.IsRetryable() {
			return &SendError{Kind: SendKindService, Err: err}
		}
	}

	return &SendError{Kind: SendKindUnknown, Err: err}
}
