package student

import (
	"context"
)

// Repository defines the persistence contract for students.
type Repository interface {
	// Create inserts a new student.
	Create(ctx context.Context, s *Student) error

	// GetByID returns a student by id.
	// Returns ErrStudentNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetWithClass returns a student joined with its class name.
	// Returns ErrStudentNotFound when no row matches.
	GetWithClass(ctx context.Context, id string) (*StudentWithClass, error)

	// GetByClass returns all students of a class ordered by name.
	GetByClass(ctx context.Context, classID string) ([]*Student, error)

	// Exists reports whether a student with the given id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes a student and, via cascade, its check-ins.
	Delete(ctx context.Context, id string) error
}

// ClassRepository defines the persistence contract for classes.
type ClassRepository interface {
	// Create inserts a new class.
	Create(ctx context.Context, c *Class) error

	// GetByID returns a class by id.
	// Returns ErrClassNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*Class, error)

	// GetAll returns all classes ordered by name.
	GetAll(ctx context.Context) ([]*Class, error)

	// Delete removes a class and, via cascade, its students and check-ins.
	Delete(ctx context.Context, id string) error
}
