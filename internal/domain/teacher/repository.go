package teacher

import (
	"context"
)

// Repository defines the persistence contract for teacher accounts.
type Repository interface {
	// Create inserts a new teacher account.
	// Returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, t *Teacher) error

	// GetByID returns a teacher by id.
	// Returns ErrTeacherNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*Teacher, error)

	// GetByEmail returns a teacher by (lowercased) email.
	// Returns ErrTeacherNotFound when no row matches.
	GetByEmail(ctx context.Context, email string) (*Teacher, error)

	// GetAll returns all teacher accounts, newest first.
	GetAll(ctx context.Context) ([]*Teacher, error)

	// SetActive toggles an account without deleting its history.
	SetActive(ctx context.Context, id string, active bool) error

	// Delete removes a teacher account.
	Delete(ctx context.Context, id string) error
}
