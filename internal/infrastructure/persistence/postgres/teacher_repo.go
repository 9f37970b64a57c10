package postgres

import (
	"context"
	"fmt"

	"github.com/emoclass/emoclass-backend/internal/domain/teacher"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TeacherRepository implements teacher.Repository for PostgreSQL.
type TeacherRepository struct {
	conn *Connection
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(conn *Connection) *TeacherRepository {
	return &TeacherRepository{conn: conn}
}

// Create creates a new teacher account.
func (r *TeacherRepository) Create(ctx context.Context, t *teacher.Teacher) error {
	query := `
		INSERT INTO teachers (id, email, full_name, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		t.ID,
		t.Email,
		t.FullName,
		t.PasswordHash,
		string(t.Role),
		t.IsActive,
		t.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return teacher.ErrEmailTaken
		}
		return fmt.Errorf("failed to create teacher: %w", err)
	}

	return nil
}

// GetByID returns a teacher by ID.
func (r *TeacherRepository) GetByID(ctx context.Context, id string) (*teacher.Teacher, error) {
	query := `
		SELECT id, email, full_name, password_hash, role, is_active, created_at
		FROM teachers
		WHERE id = $1
	`

	return r.scanTeacher(r.conn.QueryRow(ctx, query, id))
}

// GetByEmail returns a teacher by email.
func (r *TeacherRepository) GetByEmail(ctx context.Context, email string) (*teacher.Teacher, error) {
	query := `
		SELECT id, email, full_name, password_hash, role, is_active, created_at
		FROM teachers
		WHERE email = $1
	`

	return r.scanTeacher(r.conn.QueryRow(ctx, query, email))
}

// GetAll returns all teacher accounts ordered by creation time.
func (r *TeacherRepository) GetAll(ctx context.Context) ([]*teacher.Teacher, error) {
	query := `
		SELECT id, email, full_name, password_hash, role, is_active, created_at
		FROM teachers
		ORDER BY created_at
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	var out []*teacher.Teacher
	for rows.Next() {
		t, err := r.scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

// SetActive toggles the account's active flag.
func (r *TeacherRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.conn.Exec(ctx, `UPDATE teachers SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return teacher.ErrTeacherNotFound
	}
	return nil
}

// Delete removes a teacher account.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return teacher.ErrTeacherNotFound
	}
	return nil
}

func (r *TeacherRepository) scanTeacher(row pgx.Row) (*teacher.Teacher, error) {
	var t teacher.Teacher
	var role string

	err := row.Scan(&t.ID, &t.Email, &t.FullName, &t.PasswordHash, &role, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, teacher.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to scan teacher: %w", err)
	}

	t.Role = teacher.Role(role)
	return &t, nil
}
