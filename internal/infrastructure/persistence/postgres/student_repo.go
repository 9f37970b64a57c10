package postgres

import (
	"context"
	"fmt"

	"github.com/emoclass/emoclass-backend/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (id, name, class_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, s.ID, s.Name, s.ClassID, s.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return student.ErrStudentAlreadyExists
		}
		if IsForeignKeyViolation(err) {
			return student.ErrClassNotFound
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `
		SELECT id, name, class_id, created_at
		FROM students
		WHERE id = $1
	`

	var s student.Student
	err := r.conn.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.ClassID, &s.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, student.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return &s, nil
}

// GetWithClass returns a student joined with their class name.
func (r *StudentRepository) GetWithClass(ctx context.Context, id string) (*student.StudentWithClass, error) {
	query := `
		SELECT s.id, s.name, s.class_id, s.created_at, c.name
		FROM students s
		JOIN classes c ON c.id = s.class_id
		WHERE s.id = $1
	`

	var sw student.StudentWithClass
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&sw.Student.ID,
		&sw.Student.Name,
		&sw.Student.ClassID,
		&sw.Student.CreatedAt,
		&sw.ClassName,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, student.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student with class: %w", err)
	}

	return &sw, nil
}

// GetByClass returns all students of a class ordered by name.
func (r *StudentRepository) GetByClass(ctx context.Context, classID string) ([]*student.Student, error) {
	query := `
		SELECT id, name, class_id, created_at
		FROM students
		WHERE class_id = $1
		ORDER BY name
	`

	rows, err := r.conn.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query students by class: %w", err)
	}
	defer rows.Close()

	var out []*student.Student
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.ClassID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		out = append(out, &s)
	}

	return out, rows.Err()
}

// Exists reports whether a student with the given id exists.
func (r *StudentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student existence: %w", err)
	}
	return exists, nil
}

// Delete removes a student. Check-ins cascade.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CLASS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ClassRepository implements student.ClassRepository for PostgreSQL.
type ClassRepository struct {
	conn *Connection
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(conn *Connection) *ClassRepository {
	return &ClassRepository{conn: conn}
}

// Create creates a new class.
func (r *ClassRepository) Create(ctx context.Context, c *student.Class) error {
	query := `INSERT INTO classes (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := r.conn.Exec(ctx, query, c.ID, c.Name, c.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("class %q already exists", c.Name)
		}
		return fmt.Errorf("failed to create class: %w", err)
	}

	return nil
}

// GetByID returns a class by ID.
func (r *ClassRepository) GetByID(ctx context.Context, id string) (*student.Class, error) {
	var c student.Class
	err := r.conn.QueryRow(ctx, `SELECT id, name, created_at FROM classes WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, student.ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}

	return &c, nil
}

// GetAll returns all classes ordered by name.
func (r *ClassRepository) GetAll(ctx context.Context) ([]*student.Class, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, name, created_at FROM classes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var out []*student.Class
	for rows.Next() {
		var c student.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		out = append(out, &c)
	}

	return out, rows.Err()
}

// Delete removes a class. Students and their check-ins cascade.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrClassNotFound
	}
	return nil
}
