// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/emoclass/emoclass-backend/internal/domain/alert"
	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
	"github.com/emoclass/emoclass-backend/internal/domain/shared"
	"github.com/emoclass/emoclass-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT CHECKIN COMMAND
// Records one student's daily emotional check-in. At most one per student per
// local school day; the repository's unique constraint backs the pre-check.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitCheckinCommand contains the data to record a check-in.
type SubmitCheckinCommand struct {
	// StudentID is the ID of the student checking in.
	StudentID string

	// Emotion is the selected mood category (raw, unvalidated).
	Emotion string

	// Note is an optional free-text note.
	Note string

	// Timestamp is when the check-in occurred (defaults to now if zero).
	Timestamp time.Time
}

// SubmitCheckinResult contains the result of recording a check-in.
type SubmitCheckinResult struct {
	// Checkin is the persisted record.
	Checkin *checkin.Checkin

	// EvaluationQueued indicates the pattern detector was triggered.
	EvaluationQueued bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SubmitCheckinHandler handles the SubmitCheckinCommand.
type SubmitCheckinHandler struct {
	checkinRepo checkin.Repository
	eventBus    shared.EventBus
	logger      *slog.Logger
}

// NewSubmitCheckinHandler creates a new SubmitCheckinHandler.
func NewSubmitCheckinHandler(
	checkinRepo checkin.Repository,
	eventBus shared.EventBus,
	logger *slog.Logger,
) *SubmitCheckinHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitCheckinHandler{
		checkinRepo: checkinRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the submit check-in command.
//
// The day-uniqueness pre-check gives a friendly rejection on the common path;
// the database unique constraint closes the race between two concurrent
// submissions, so a duplicate can never be stored.
func (h *SubmitCheckinHandler) Handle(ctx context.Context, cmd SubmitCheckinCommand) (*SubmitCheckinResult, error) {
	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = timeutil.Now()
	}

	record, err := checkin.NewCheckin(checkin.NewCheckinParams{
		ID:        uuid.NewString(),
		StudentID: cmd.StudentID,
		Emotion:   checkin.Emotion(cmd.Emotion),
		Note:      cmd.Note,
		Now:       timestamp,
	})
	if err != nil {
		return nil, err
	}

	// Pre-check today's window before hitting the constraint.
	from := timeutil.StartOfDay(timestamp)
	to := timeutil.EndOfDay(timestamp)
	exists, err := h.checkinRepo.ExistsForStudentBetween(ctx, record.StudentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("submit_checkin: day-window lookup failed: %w", err)
	}
	if exists {
		return nil, checkin.ErrAlreadyCheckedInToday
	}

	if err := h.checkinRepo.Create(ctx, record); err != nil {
		if errors.Is(err, checkin.ErrAlreadyCheckedInToday) {
			// Lost the race to a concurrent submission.
			return nil, checkin.ErrAlreadyCheckedInToday
		}
		return nil, fmt.Errorf("submit_checkin: persist failed: %w", err)
	}

	h.logger.Info("checkin recorded",
		"checkin_id", record.ID,
		"student_id", record.StudentID,
		"emotion", record.Emotion.String(),
	)

	result := &SubmitCheckinResult{Checkin: record}

	// Untracked emotions can never complete a unanimous pattern ending at
	// this check-in, so the detector is only worth waking for tracked ones.
	// Publish failures are logged and swallowed: the committed write always
	// wins over the follow-up evaluation.
	if h.eventBus != nil && alert.IsTracked(record.Emotion) {
		event := shared.NewCheckinRecordedEvent(record.StudentID, record.Emotion.String())
		if err := h.eventBus.Publish(event); err != nil {
			h.logger.Warn("pattern evaluation trigger failed",
				"student_id", record.StudentID,
				"error", err,
			)
		} else {
			result.EvaluationQueued = true
		}
	}

	return result, nil
}
