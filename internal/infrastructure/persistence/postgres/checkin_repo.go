package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/emoclass/emoclass-backend/internal/domain/checkin"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHECKIN REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CheckinRepository implements checkin.Repository for PostgreSQL.
type CheckinRepository struct {
	conn *Connection
}

// NewCheckinRepository creates a new CheckinRepository.
func NewCheckinRepository(conn *Connection) *CheckinRepository {
	return &CheckinRepository{conn: conn}
}

// Create inserts a new check-in. The uq_checkins_student_day index turns a
// same-day duplicate into checkin.ErrAlreadyCheckedInToday, which closes the
// race the application-level pre-check leaves open.
func (r *CheckinRepository) Create(ctx context.Context, c *checkin.Checkin) error {
	query := `
		INSERT INTO emotion_checkins (id, student_id, emotion, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		c.ID,
		c.StudentID,
		c.Emotion.String(),
		c.Note,
		c.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return checkin.ErrAlreadyCheckedInToday
		}
		if IsForeignKeyViolation(err) {
			return checkin.ErrInvalidStudentID
		}
		return fmt.Errorf("failed to create checkin: %w", err)
	}

	return nil
}

// GetRecentByStudent returns the student's most recent check-ins, newest first.
func (r *CheckinRepository) GetRecentByStudent(ctx context.Context, studentID string, limit int) ([]*checkin.Checkin, error) {
	query := `
		SELECT id, student_id, emotion, note, created_at
		FROM emotion_checkins
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent checkins: %w", err)
	}
	defer rows.Close()

	return scanCheckins(rows)
}

// ExistsForStudentBetween reports whether the student has a check-in in
// [from, to).
func (r *CheckinRepository) ExistsForStudentBetween(ctx context.Context, studentID string, from, to time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM emotion_checkins
			WHERE student_id = $1 AND created_at >= $2 AND created_at < $3
		)
	`

	var exists bool
	if err := r.conn.QueryRow(ctx, query, studentID, from, to).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check day window: %w", err)
	}

	return exists, nil
}

// GetByStudentsBetween returns all check-ins of the given students in
// [from, to), newest first.
func (r *CheckinRepository) GetByStudentsBetween(ctx context.Context, studentIDs []string, from, to time.Time) ([]*checkin.Checkin, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, student_id, emotion, note, created_at
		FROM emotion_checkins
		WHERE student_id = ANY($1) AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
	`

	rows, err := r.conn.Query(ctx, query, studentIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkins by students: %w", err)
	}
	defer rows.Close()

	return scanCheckins(rows)
}

// CountByStudent returns the total number of check-ins for a student.
func (r *CheckinRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	query := `SELECT COUNT(*) FROM emotion_checkins WHERE student_id = $1`

	var count int
	if err := r.conn.QueryRow(ctx, query, studentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count checkins: %w", err)
	}

	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanCheckins(rows pgx.Rows) ([]*checkin.Checkin, error) {
	var out []*checkin.Checkin
	for rows.Next() {
		var c checkin.Checkin
		var emotion string

		if err := rows.Scan(&c.ID, &c.StudentID, &emotion, &c.Note, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan checkin: %w", err)
		}

		c.Emotion = checkin.Emotion(emotion)
		out = append(out, &c)
	}

	return out, rows.Err()
}
