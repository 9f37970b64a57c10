package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
	"github.com/emoclass/emoclass-backend/internal/domain/student"
	"github.com/emoclass/emoclass-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET WEEKLY TREND QUERY
// Computes the positive-mood score per day over a trailing window, giving
// teachers a quick read on whether the class mood is trending up or down.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultTrendDays is the default trailing window length.
const DefaultTrendDays = 7

// MaxTrendDays caps the window to keep the scan bounded.
const MaxTrendDays = 31

// GetWeeklyTrendQuery contains parameters for the trend report.
type GetWeeklyTrendQuery struct {
	// ClassID identifies the class.
	ClassID string

	// Days is the trailing window length ending today (0 = default).
	Days int
}

// Validate checks the query parameters.
func (q *GetWeeklyTrendQuery) Validate() error {
	if q.ClassID == "" {
		return errors.New("get_weekly_trend: class_id is required")
	}
	if q.Days <= 0 {
		q.Days = DefaultTrendDays
	}
	if q.Days > MaxTrendDays {
		q.Days = MaxTrendDays
	}
	return nil
}

// DayTrendDTO is one day's aggregate on the trend chart.
type DayTrendDTO struct {
	Date          string  `json:"date"`
	Weekday       string  `json:"weekday"`
	CheckinCount  int     `json:"checkin_count"`
	PositiveCount int     `json:"positive_count"`

	// Score is the positive share in percent, 0 when nobody checked in.
	Score float64 `json:"score"`
}

// WeeklyTrendDTO is the full trend payload, oldest day first.
type WeeklyTrendDTO struct {
	ClassID string        `json:"class_id"`
	Days    []DayTrendDTO `json:"days"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetWeeklyTrendHandler handles the GetWeeklyTrendQuery.
type GetWeeklyTrendHandler struct {
	studentRepo student.Repository
	checkinRepo checkin.Repository
}

// NewGetWeeklyTrendHandler creates a new GetWeeklyTrendHandler.
func NewGetWeeklyTrendHandler(
	studentRepo student.Repository,
	checkinRepo checkin.Repository,
) *GetWeeklyTrendHandler {
	return &GetWeeklyTrendHandler{
		studentRepo: studentRepo,
		checkinRepo: checkinRepo,
	}
}

// Handle computes the trailing trend for one class.
func (h *GetWeeklyTrendHandler) Handle(ctx context.Context, q GetWeeklyTrendQuery) (*WeeklyTrendDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	roster, err := h.studentRepo.GetByClass(ctx, q.ClassID)
	if err != nil {
		return nil, fmt.Errorf("get_weekly_trend: roster lookup failed: %w", err)
	}

	ids := make([]string, 0, len(roster))
	for _, s := range roster {
		ids = append(ids, s.ID)
	}

	now := timeutil.Now()
	from := timeutil.StartOfDay(now.AddDate(0, 0, -(q.Days - 1)))
	to := timeutil.EndOfDay(now)

	records, err := h.checkinRepo.GetByStudentsBetween(ctx, ids, from, to)
	if err != nil {
		return nil, fmt.Errorf("get_weekly_trend: checkin lookup failed: %w", err)
	}

	type bucket struct {
		total    int
		positive int
	}
	byDay := make(map[string]*bucket, q.Days)
	for _, c := range records {
		key := timeutil.FormatDateStr(c.CreatedAt)
		b, ok := byDay[key]
		if !ok {
			b = &bucket{}
			byDay[key] = b
		}
		b.total++
		if c.Emotion.IsPositive() {
			b.positive++
		}
	}

	dto := &WeeklyTrendDTO{
		ClassID: q.ClassID,
		Days:    make([]DayTrendDTO, 0, q.Days),
	}

	for i := q.Days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		key := timeutil.FormatDateStr(day)

		entry := DayTrendDTO{
			Date:    key,
			Weekday: timeutil.WeekdayNameID(day),
		}
		if b, ok := byDay[key]; ok && b.total > 0 {
			entry.CheckinCount = b.total
			entry.PositiveCount = b.positive
			entry.Score = float64(b.positive) / float64(b.total) * 100
		}
		dto.Days = append(dto.Days, entry)
	}

	return dto, nil
}
