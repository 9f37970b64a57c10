package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/emoclass/emoclass-backend/internal/domain/alert"
	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
	"github.com/emoclass/emoclass-backend/internal/domain/shared"
	"github.com/emoclass/emoclass-backend/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATE PATTERN COMMAND
// Runs the repeated-emotion rule over a student's three most recent check-ins
// and dispatches a counselor notification when the window is unanimous.
// ══════════════════════════════════════════════════════════════════════════════

// EvaluatePatternCommand identifies the student to evaluate.
type EvaluatePatternCommand struct {
	// StudentID is the student whose recent history is inspected.
	StudentID string
}

// Validate validates the command.
func (c EvaluatePatternCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("evaluate_pattern: student_id is required")
	}
	return nil
}

// EvaluatePatternResult reports the outcome of one evaluation pass.
type EvaluatePatternResult struct {
	// StudentID is the evaluated student.
	StudentID string

	// Alerted indicates a notifiable pattern was detected.
	Alerted bool

	// Emotion is the unanimous emotion (set only when Alerted).
	Emotion checkin.Emotion

	// Severity is the mapped severity (set only when Alerted).
	Severity alert.Severity

	// Message is the composed notification text (set only when Alerted).
	Message string

	// Sent indicates the notification reached the channel. An alert with
	// Sent=false was detected but failed dispatch; it is never retried.
	Sent bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// EvaluatePatternHandler handles the EvaluatePatternCommand.
type EvaluatePatternHandler struct {
	checkinRepo checkin.Repository
	studentRepo student.Repository
	notifier    alert.Notifier
	logger      *slog.Logger
}

// NewEvaluatePatternHandler creates a new EvaluatePatternHandler.
func NewEvaluatePatternHandler(
	checkinRepo checkin.Repository,
	studentRepo student.Repository,
	notifier alert.Notifier,
	logger *slog.Logger,
) *EvaluatePatternHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluatePatternHandler{
		checkinRepo: checkinRepo,
		studentRepo: studentRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Handle executes one evaluation pass. Dispatch is at-most-once: a failed
// send is reported through Sent=false, not through the error return.
func (h *EvaluatePatternHandler) Handle(ctx context.Context, cmd EvaluatePatternCommand) (*EvaluatePatternResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &EvaluatePatternResult{StudentID: cmd.StudentID}

	window, err := h.checkinRepo.GetRecentByStudent(ctx, cmd.StudentID, alert.PatternWindow)
	if err != nil {
		return nil, fmt.Errorf("evaluate_pattern: history lookup failed: %w", err)
	}

	ev, err := alert.Classify(cmd.StudentID, window)
	if err != nil {
		if errors.Is(err, alert.ErrNotClassifiable) {
			return result, nil
		}
		return nil, fmt.Errorf("evaluate_pattern: classification failed: %w", err)
	}

	// Resolve display names only after a pattern is confirmed.
	withClass, err := h.studentRepo.GetWithClass(ctx, cmd.StudentID)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) || shared.IsNotFound(err) {
			return nil, student.ErrStudentNotFound
		}
		return nil, fmt.Errorf("evaluate_pattern: student lookup failed: %w", err)
	}

	result.Alerted = true
	result.Emotion = ev.Emotion
	result.Severity = ev.Severity
	result.Message = alert.ComposeMessage(withClass.Student.Name, withClass.ClassName, ev)

	if err := h.notifier.Send(ctx, result.Message); err != nil {
		h.logger.Warn("alert dispatch failed",
			"student_id", cmd.StudentID,
			"severity", string(ev.Severity),
			"error", err,
		)
		return result, nil
	}

	result.Sent = true
	h.logger.Info("alert dispatched",
		"student_id", cmd.StudentID,
		"emotion", ev.Emotion.String(),
		"severity", string(ev.Severity),
	)

	return result, nil
}
