package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a relay call failed.
type Kind string

const (
	KindNetwork   Kind = "network"
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindTimeout   Kind = "timeout"
	KindMalformed Kind = "malformed"
	KindProvider  Kind = "provider"
)

// Retryable reports whether the same request may succeed if sent again.
func (k Kind) Retryable() bool {
	switch k {
	case KindNetwork, KindRateLimit, KindTimeout, KindProvider:
		return true
	default:
		return false
	}
}

// Error is returned by Relay for every failure. Status is the provider's
// HTTP status when a response was received, zero otherwise.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("relay %s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("relay %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a relay error, or "" for any other error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var (
	errMissingToken = errors.New("completion provider credential not configured")
	errNoChoices    = errors.New("completion response had no choices")
)

func classify(ctx context.Context, err error, status int) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return &Error{Kind: KindTimeout, Status: status, Err: err}
	}

	switch {
	case status == 0:
		return &Error{Kind: KindNetwork, Err: err}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: KindAuth, Status: status, Err: err}
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, Status: status, Err: err}
	case status >= 200 && status < 300:
		// The provider answered but the body could not be turned into a completion.
		return &Error{Kind: KindMalformed, Status: status, Err: err}
	default:
		return &Error{Kind: KindProvider, Status: status, Err: err}
	}
}
