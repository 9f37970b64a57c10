package checkin

import (
	"context"
	"time"
)

// Repository defines the persistence contract for check-ins.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// Create inserts a new check-in. Returns ErrAlreadyCheckedInToday when
	// the per-student per-day uniqueness constraint rejects the insert.
	Create(ctx context.Context, c *Checkin) error

	// GetRecentByStudent returns the most recent check-ins for a student,
	// ordered by creation time descending, at most limit records.
	GetRecentByStudent(ctx context.Context, studentID string, limit int) ([]*Checkin, error)

	// ExistsForStudentBetween reports whether the student has a check-in
	// with from <= created_at < to.
	ExistsForStudentBetween(ctx context.Context, studentID string, from, to time.Time) (bool, error)

	// GetByStudentsBetween returns all check-ins for the given students
	// within [from, to), newest first.
	GetByStudentsBetween(ctx context.Context, studentIDs []string, from, to time.Time) ([]*Checkin, error)

	// CountByStudent returns the total number of check-ins for a student.
	CountByStudent(ctx context.Context, studentID string) (int, error)
}
