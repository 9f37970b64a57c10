package alert

import (
	"context"
	"errors"
)

// Notifier is the outbound notification channel consumed by the detector.
// Implementations live in infrastructure/external.
type Notifier interface {
	// Send dispatches one text message. At most one attempt is made per
	// call; the detector never retries a failed dispatch.
	Send(ctx context.Context, text string) error
}

var (
	// ErrNotConfigured - the channel is missing its credential or
	// destination and short-circuits without calling out.
	ErrNotConfigured = errors.New("notification channel not configured")

	// ErrDispatchFailed - the channel was reachable but the send failed.
	ErrDispatchFailed = errors.New("notification dispatch failed")
)
