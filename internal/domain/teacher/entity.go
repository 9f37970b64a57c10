// Package teacher contains the teacher account domain model used by the
// admin API and the login flow.
package teacher

import (
	"errors"
	"strings"
	"time"
)

// Role determines what a signed-in user may do.
type Role string

const (
	// RoleTeacher - may read dashboards for their classes.
	RoleTeacher Role = "teacher"
	// RoleAdmin - may manage classes, students, and teacher accounts.
	RoleAdmin Role = "admin"
)

// IsValid checks that the role is known.
func (r Role) IsValid() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// Teacher is a staff account. Passwords are stored as bcrypt hashes only.
type Teacher struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}

var (
	// ErrTeacherNotFound - no teacher with the given id or email.
	ErrTeacherNotFound = errors.New("teacher not found")

	// ErrEmailTaken - a teacher with the email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidEmail - email missing or malformed.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidFullName - full name missing or too long.
	ErrInvalidFullName = errors.New("invalid full name: must be 1-100 chars")

	// ErrInvalidCredentials - login failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// NewTeacher creates a teacher account with validated fields. The password
// hash must already be computed by the caller.
func NewTeacher(id, email, fullName, passwordHash string, role Role) (*Teacher, error) {
	if id == "" {
		return nil, errors.New("teacher id is required")
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	fullName = strings.TrimSpace(fullName)
	if len(fullName) == 0 || len(fullName) > 100 {
		return nil, ErrInvalidFullName
	}

	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}

	if !role.IsValid() {
		role = RoleTeacher
	}

	return &Teacher{
		ID:           id,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
