// Package student contains the student and class domain model.
package student

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Student belongs to exactly one class; many check-ins reference one student.
type Student struct {
	// ID - unique identifier (UUID in string form).
	ID string

	// Name - display name shown on dashboards and in alerts.
	Name string

	// ClassID - owning class.
	ClassID string

	// CreatedAt - record creation time.
	CreatedAt time.Time
}

// Class groups students for dashboards and alert context.
type Class struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrStudentNotFound - no student with the given id.
	ErrStudentNotFound = errors.New("student not found")

	// ErrClassNotFound - no class with the given id.
	ErrClassNotFound = errors.New("class not found")

	// ErrInvalidName - display name is empty or too long.
	ErrInvalidName = errors.New("invalid name: must be 1-100 chars")

	// ErrStudentAlreadyExists - duplicate student.
	ErrStudentAlreadyExists = errors.New("student already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudent creates a student with validated fields.
func NewStudent(id, name, classID string) (*Student, error) {
	if id == "" {
		return nil, errors.New("student id is required")
	}

	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	if strings.TrimSpace(classID) == "" {
		return nil, ErrClassNotFound
	}

	return &Student{
		ID:        id,
		Name:      name,
		ClassID:   classID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewClass creates a class with validated fields.
func NewClass(id, name string) (*Class, error) {
	if id == "" {
		return nil, errors.New("class id is required")
	}

	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	return &Class{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// String returns a string representation for logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Class: %s}", s.ID, s.Name, s.ClassID)
}

// ══════════════════════════════════════════════════════════════════════════════
// READ MODELS
// ══════════════════════════════════════════════════════════════════════════════

// StudentWithClass is the read-only join used by the notifier and dashboards.
type StudentWithClass struct {
	Student   Student
	ClassName string
}
