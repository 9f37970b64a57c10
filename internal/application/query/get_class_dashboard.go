// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emoclass/emoclass-backend/internal/domain/alert"
	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
	"github.com/emoclass/emoclass-backend/internal/domain/student"
	"github.com/emoclass/emoclass-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CLASS DASHBOARD QUERY
// Builds the teacher's daily view of one class: who has checked in, the
// emotion distribution, and which students need follow-up attention.
// ══════════════════════════════════════════════════════════════════════════════

// GetClassDashboardQuery contains parameters for the class dashboard.
type GetClassDashboardQuery struct {
	// ClassID identifies the class.
	ClassID string

	// Date is the local day to report on (zero = today).
	Date time.Time
}

// Validate checks the query parameters.
func (q *GetClassDashboardQuery) Validate() error {
	if q.ClassID == "" {
		return errors.New("get_class_dashboard: class_id is required")
	}
	if q.Date.IsZero() {
		q.Date = timeutil.Now()
	}
	return nil
}

// StudentMoodDTO is one student's row on the dashboard.
type StudentMoodDTO struct {
	StudentID    string `json:"student_id"`
	Name         string `json:"name"`
	CheckedIn    bool   `json:"checked_in"`
	Emotion      string `json:"emotion,omitempty"`
	EmotionLabel string `json:"emotion_label,omitempty"`
	Emoji        string `json:"emoji,omitempty"`
	Note         string `json:"note,omitempty"`
	CheckedInAt  string `json:"checked_in_at,omitempty"`
}

// ClassDashboardDTO is the full dashboard payload for one class and day.
type ClassDashboardDTO struct {
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
	Date      string `json:"date"`

	TotalStudents int `json:"total_students"`
	CheckedIn     int `json:"checked_in"`
	NotCheckedIn  int `json:"not_checked_in"`

	// Distribution maps each emotion to today's count.
	Distribution map[string]int `json:"distribution"`

	// Aggregate mood categories.
	PositiveCount     int `json:"positive_count"`
	TiredCount        int `json:"tired_count"`
	NeedsSupportCount int `json:"needs_support_count"`

	// Students lists every roster member in name order, checked-in first.
	Students []StudentMoodDTO `json:"students"`

	// NeedsAttention lists students whose emotion today maps to a tracked
	// severity.
	NeedsAttention []StudentMoodDTO `json:"needs_attention"`
}

// DashboardCache is the optional read-through cache for dashboard payloads.
// A nil cache and a cache miss behave identically.
type DashboardCache interface {
	// GetClassDashboard returns the cached payload or (nil, nil) on miss.
	GetClassDashboard(ctx context.Context, classID, date string) (*ClassDashboardDTO, error)

	// SetClassDashboard stores the payload under a short TTL.
	SetClassDashboard(ctx context.Context, classID, date string, dto *ClassDashboardDTO) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetClassDashboardHandler handles the GetClassDashboardQuery.
type GetClassDashboardHandler struct {
	studentRepo student.Repository
	classRepo   student.ClassRepository
	checkinRepo checkin.Repository
	cache       DashboardCache
	logger      *slog.Logger
}

// NewGetClassDashboardHandler creates a new GetClassDashboardHandler.
// The cache may be nil; the dashboard is then always computed fresh.
func NewGetClassDashboardHandler(
	studentRepo student.Repository,
	classRepo student.ClassRepository,
	checkinRepo checkin.Repository,
	cache DashboardCache,
	logger *slog.Logger,
) *GetClassDashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetClassDashboardHandler{
		studentRepo: studentRepo,
		classRepo:   classRepo,
		checkinRepo: checkinRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Handle builds the dashboard for one class and day.
func (h *GetClassDashboardHandler) Handle(ctx context.Context, q GetClassDashboardQuery) (*ClassDashboardDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	dateKey := timeutil.FormatDateStr(q.Date)

	if h.cache != nil {
		if cached, err := h.cache.GetClassDashboard(ctx, q.ClassID, dateKey); err != nil {
			h.logger.Warn("dashboard cache read failed", "class_id", q.ClassID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	class, err := h.classRepo.GetByID(ctx, q.ClassID)
	if err != nil {
		return nil, err
	}

	roster, err := h.studentRepo.GetByClass(ctx, q.ClassID)
	if err != nil {
		return nil, fmt.Errorf("get_class_dashboard: roster lookup failed: %w", err)
	}

	ids := make([]string, 0, len(roster))
	for _, s := range roster {
		ids = append(ids, s.ID)
	}

	from := timeutil.StartOfDay(q.Date)
	to := timeutil.EndOfDay(q.Date)
	todays, err := h.checkinRepo.GetByStudentsBetween(ctx, ids, from, to)
	if err != nil {
		return nil, fmt.Errorf("get_class_dashboard: checkin lookup failed: %w", err)
	}

	// One check-in per student per day, so a plain map suffices.
	byStudent := make(map[string]*checkin.Checkin, len(todays))
	for _, c := range todays {
		byStudent[c.StudentID] = c
	}

	dto := &ClassDashboardDTO{
		ClassID:       q.ClassID,
		ClassName:     class.Name,
		Date:          dateKey,
		TotalStudents: len(roster),
		Distribution:  make(map[string]int, len(checkin.AllEmotions())),
	}
	for _, e := range checkin.AllEmotions() {
		dto.Distribution[e.String()] = 0
	}

	checkedIn := make([]StudentMoodDTO, 0, len(todays))
	missing := make([]StudentMoodDTO, 0, len(roster))

	for _, s := range roster {
		c, ok := byStudent[s.ID]
		if !ok {
			missing = append(missing, StudentMoodDTO{StudentID: s.ID, Name: s.Name})
			continue
		}

		row := StudentMoodDTO{
			StudentID:    s.ID,
			Name:         s.Name,
			CheckedIn:    true,
			Emotion:      c.Emotion.String(),
			EmotionLabel: c.Emotion.Label(),
			Emoji:        c.Emotion.Emoji(),
			Note:         c.Note,
			CheckedInAt:  timeutil.FormatTimeStr(c.CreatedAt),
		}
		checkedIn = append(checkedIn, row)

		dto.Distribution[c.Emotion.String()]++
		switch {
		case c.Emotion.IsPositive():
			dto.PositiveCount++
		case c.Emotion == checkin.EmotionSleepy:
			dto.TiredCount++
		default:
			dto.NeedsSupportCount++
		}

		if alert.IsTracked(c.Emotion) {
			dto.NeedsAttention = append(dto.NeedsAttention, row)
		}
	}

	dto.CheckedIn = len(checkedIn)
	dto.NotCheckedIn = len(missing)
	dto.Students = append(checkedIn, missing...)

	if h.cache != nil {
		if err := h.cache.SetClassDashboard(ctx, q.ClassID, dateKey, dto); err != nil {
			h.logger.Warn("dashboard cache write failed", "class_id", q.ClassID, "error", err)
		}
	}

	return dto, nil
}
