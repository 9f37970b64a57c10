package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emoclass/emoclass-backend/internal/domain/alert"
)

// ══════════════════════════════════════════════════════════════════════════════
// ALERT NOTIFIER
// ══════════════════════════════════════════════════════════════════════════════

// DispatchTimeout bounds one alert dispatch end to end.
const DispatchTimeout = 5 * time.Second

// AlertNotifier implements alert.Notifier on the Telegram Bot API.
//
// Dispatch is at-most-once: the underlying client is configured without
// retries, and a failed send surfaces as an error for the caller to record.
// A missing token or chat ID makes every Send short-circuit with
// alert.ErrNotConfigured instead of calling out.
type AlertNotifier struct {
	client *Client
	chatID int64
	logger *slog.Logger
}

// NewAlertNotifier creates an AlertNotifier for the counselor chat.
// An empty token or zero chatID yields an unconfigured notifier.
func NewAlertNotifier(token string, chatID int64, logger *slog.Logger) *AlertNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	n := &AlertNotifier{chatID: chatID, logger: logger}
	if token != "" && chatID != 0 {
		cfg := DefaultClientConfig(token)
		cfg.Timeout = DispatchTimeout
		cfg.RetryAttempts = 0
		cfg.Logger = logger
		n.client = NewClient(cfg)
	}

	return n
}

// NewAlertNotifierWithClient wires an existing client, used in tests.
func NewAlertNotifierWithClient(client *Client, chatID int64, logger *slog.Logger) *AlertNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertNotifier{client: client, chatID: chatID, logger: logger}
}

// IsConfigured reports whether the notifier can actually dispatch.
func (n *AlertNotifier) IsConfigured() bool {
	return n.client != nil && n.chatID != 0
}

// Send implements alert.Notifier with a single bounded attempt.
func (n *AlertNotifier) Send(ctx context.Context, text string) error {
	if !n.IsConfigured() {
		n.logger.Warn("telegram notifier not configured, dropping alert")
		return alert.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, DispatchTimeout)
	defer cancel()

	msg, err := n.client.SendText(ctx, n.chatID, text)
	if err != nil {
		return fmt.Errorf("%w: %v", alert.ErrDispatchFailed, err)
	}

	n.logger.Info("telegram alert sent", "message_id", msg.MessageID, "chat_id", n.chatID)
	return nil
}
