package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Failure classes surfaced by Generate. RateLimited and
// ServiceUnavailable are transient and retried a bounded number of
// times before being returned; InvalidModel and Unknown are permanent
// and surface immediately.
var (
	ErrRateLimited        = errors.New("model rate limited")
	ErrServiceUnavailable = errors.New("model service unavailable")
	ErrInvalidModel       = errors.New("invalid model configuration")
	ErrUnknown            = errors.New("model call failed")
)

// Classify maps a raw collaborator error onto the failure taxonomy,
// wrapping the original error. The underlying SDK exposes failures as
// opaque errors, so classification matches on status codes and phrases.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "429", "rate limit", "quota", "too many requests"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case containsAny(msg, "503", "unavailable", "overloaded", "server busy", "timeout", "connection refused"):
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	case containsAny(msg, "401", "403", "404", "api key", "invalid model", "model not found", "permission"):
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnknown, err)
	}
}

// Transient reports whether a classified error is worth retrying.
func Transient(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServiceUnavailable)
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
