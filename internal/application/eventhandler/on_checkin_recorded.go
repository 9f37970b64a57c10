// Package eventhandler subscribes application handlers to domain events.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emoclass/emoclass-backend/internal/application/command"
	"github.com/emoclass/emoclass-backend/internal/domain/shared"
	"github.com/emoclass/emoclass-backend/internal/infrastructure/metrics"
)

// evaluationTimeout bounds one detection pass, including the dispatch.
const evaluationTimeout = 10 * time.Second

// CheckinRecordedHandler runs the pattern evaluator whenever a check-in is
// recorded. Evaluation happens off the request path: any failure here is
// logged and never surfaces to the student who submitted the check-in.
type CheckinRecordedHandler struct {
	evaluator *command.EvaluatePatternHandler
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewCheckinRecordedHandler creates a new CheckinRecordedHandler.
// Metrics may be nil.
func NewCheckinRecordedHandler(evaluator *command.EvaluatePatternHandler, m *metrics.Metrics, logger *slog.Logger) *CheckinRecordedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckinRecordedHandler{evaluator: evaluator, metrics: m, logger: logger}
}

// Register subscribes the handler on the bus.
func (h *CheckinRecordedHandler) Register(bus shared.EventBus) error {
	if err := bus.Subscribe(shared.EventCheckinRecorded, h.handle); err != nil {
		return fmt.Errorf("eventhandler: subscribe failed: %w", err)
	}
	return nil
}

func (h *CheckinRecordedHandler) handle(event shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), evaluationTimeout)
	defer cancel()

	result, err := h.evaluator.Handle(ctx, command.EvaluatePatternCommand{
		StudentID: event.AggregateID(),
	})
	if err != nil {
		h.logger.Error("pattern evaluation failed",
			"student_id", event.AggregateID(),
			"error", err,
		)
		return err
	}

	if result.Alerted && h.metrics != nil {
		h.metrics.AlertsDetected.WithLabelValues(string(result.Severity)).Inc()
		if result.Sent {
			h.metrics.AlertsDispatched.Inc()
		} else {
			h.metrics.DispatchFailures.Inc()
		}
	}

	if result.Alerted && !result.Sent {
		h.logger.Warn("alert detected but not delivered",
			"student_id", result.StudentID,
			"severity", string(result.Severity),
		)
	}

	return nil
}
