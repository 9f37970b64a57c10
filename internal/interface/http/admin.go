// Package http implements the REST API for the EmoClass backend.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/emoclass/emoclass-backend/internal/domain/student"
	"github.com/emoclass/emoclass-backend/internal/domain/teacher"
	"github.com/emoclass/emoclass-backend/internal/infrastructure/auth"
	"github.com/emoclass/emoclass-backend/pkg/logger"
	"github.com/emoclass/emoclass-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued tokens plus the signed-in account.
type LoginResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	Teacher      TeacherDTO `json:"teacher"`
}

// TeacherDTO is a teacher account without its password hash.
type TeacherDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

func newTeacherDTO(t *teacher.Teacher) TeacherDTO {
	return TeacherDTO{
		ID:        t.ID,
		Email:     t.Email,
		FullName:  t.FullName,
		Role:      string(t.Role),
		IsActive:  t.IsActive,
		CreatedAt: timeutil.FormatJakarta(t.CreatedAt, timeutil.FormatDateTimeSeconds),
	}
}

// handleLogin handles POST /api/v1/auth/login.
//
// A disabled account and a wrong password produce the same rejection, so the
// response does not reveal which accounts exist.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.config.JWTSecret == "" || s.deps.TeacherRepo == nil {
		writeJSONError(w, http.StatusNotImplemented, "Login belum dikonfigurasi")
		return
	}

	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Format permintaan tidak valid")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Email dan kata sandi wajib diisi")
		return
	}

	account, err := s.deps.TeacherRepo.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, teacher.ErrTeacherNotFound) {
			writeJSONError(w, http.StatusUnauthorized, "Email atau kata sandi salah")
			return
		}
		s.logger.Error("login lookup failed", logger.Err(err), logger.Email(email))
		writeJSONError(w, http.StatusInternalServerError, "Terjadi kesalahan pada server")
		return
	}

	if !account.IsActive || !auth.CheckPassword(account.PasswordHash, req.Password) {
		writeJSONError(w, http.StatusUnauthorized, "Email atau kata sandi salah")
		return
	}

	pair, err := auth.Issue(
		account.ID, string(account.Role),
		s.config.JWTIssuer, s.config.JWTSecret,
		s.config.AccessTokenTTL, s.config.RefreshTokenTTL,
	)
	if err != nil {
		s.logger.Error("token issue failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "Terjadi kesalahan pada server")
		return
	}

	writeJSON(w, http.StatusOK, "Login berhasil", LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Teacher:      newTeacherDTO(account),
	})
}

// requireRole wraps a handler with bearer-token authentication. Admins pass
// every gate; teachers pass only teacher-level gates.
func (s *Server) requireRole(minRole teacher.Role, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.JWTSecret == "" {
			writeJSONError(w, http.StatusNotImplemented, "Login belum dikonfigurasi")
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSONError(w, http.StatusUnauthorized, "Token tidak ditemukan")
			return
		}

		claims, err := auth.Parse(token, s.config.JWTSecret, s.config.JWTIssuer)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "Token tidak valid atau kedaluwarsa")
			return
		}

		role := teacher.Role(claims.Role)
		if minRole == teacher.RoleAdmin && role != teacher.RoleAdmin {
			writeJSONError(w, http.StatusForbidden, "Hanya admin yang boleh mengakses")
			return
		}
		if !role.IsValid() {
			writeJSONError(w, http.StatusForbidden, "Peran tidak dikenali")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// claimsFromContext returns the authenticated claims, if any.
func claimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(contextKeyClaims).(auth.Claims)
	return claims, ok
}

// ══════════════════════════════════════════════════════════════════════════════
// CLASS MANAGEMENT
// ══════════════════════════════════════════════════════════════════════════════

// CreateClassRequest is the request body for POST /api/v1/admin/classes.
type CreateClassRequest struct {
	Name string `json:"name"`
}

// ClassDTO is a class as exposed by the admin API.
type ClassDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func newClassDTO(c *student.Class) ClassDTO {
	return ClassDTO{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: timeutil.FormatJakarta(c.CreatedAt, timeutil.FormatDateTimeSeconds),
	}
}

// handleListClasses handles GET /api/v1/admin/classes.
func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.deps.ClassRepo.GetAll(r.Context())
	if err != nil {
		s.logger.Error("failed to list classes", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "Gagal memuat daftar kelas")
		return
	}

	dtos := make([]ClassDTO, 0, len(classes))
	for _, c := range classes {
		dtos = append(dtos, newClassDTO(c))
	}

	writeJSON(w, http.StatusOK, "OK", dtos)
}

// handleCreateClass handles POST /api/v1/admin/classes.
func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req CreateClassRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Format permintaan tidak valid")
		return
	}

	class, err := student.NewClass(uuid.NewString(), req.Name)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Nama kelas wajib diisi (maksimal 100 karakter)")
		return
	}

	if err := s.deps.ClassRepo.Create(r.Context(), class); err != nil {
		s.logger.Error("failed to create class", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "Gagal menyimpan kelas")
		return
	}

	writeJSON(w, http.StatusCreated, "Kelas berhasil dibuat", newClassDTO(class))
}

// handleDeleteClass handles DELETE /api/v1/admin/classes/{id}.
// The cascade removes the students of the class and their check-ins.
func (s *Server) handleDeleteClass(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.deps.ClassRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, student.ErrClassNotFound) {
			writeJSONError(w, http.StatusNotFound, "Kelas tidak ditemukan")
			return
		}
		s.logger.Error("failed to delete class", logger.Err(err), logger.ClassID(id))
		writeJSONError(w, http.StatusInternalServerError, "Gagal menghapus kelas")
		return
	}

	writeJSON(w, http.StatusOK, "Kelas dihapus", nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT MANAGEMENT
// ══════════════════════════════════════════════════════════════════════════════

// CreateStudentRequest is the request body for POST /api/v1/admin/students.
type CreateStudentRequest struct {
	Name    string `json:"name"`
	ClassID string `json:"class_id"`
}

// StudentDTO is a student as exposed by the admin API.
type StudentDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClassID   string `json:"class_id"`
	CreatedAt string `json:"created_at"`
}

func newStudentDTO(st *student.Student) StudentDTO {
	return StudentDTO{
		ID:        st.ID,
		Name:      st.Name,
		ClassID:   st.ClassID,
		CreatedAt: timeutil.FormatJakarta(st.CreatedAt, timeutil.FormatDateTimeSeconds),
	}
}

// handleListStudents handles GET /api/v1/admin/classes/{id}/students.
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")

	students, err := s.deps.StudentRepo.GetByClass(r.Context(), classID)
	if err != nil {
		s.logger.Error("failed to list students", logger.Err(err), logger.ClassID(classID))
		writeJSONError(w, http.StatusInternalServerError, "Gagal memuat daftar siswa")
		return
	}

	dtos := make([]StudentDTO, 0, len(students))
	for _, st := range students {
		dtos = append(dtos, newStudentDTO(st))
	}

	writeJSON(w, http.StatusOK, "OK", dtos)
}

// handleCreateStudent handles POST /api/v1/admin/students.
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Format permintaan tidak valid")
		return
	}

	st, err := student.NewStudent(uuid.NewString(), req.Name, req.ClassID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Nama siswa dan ID kelas wajib diisi")
		return
	}

	if _, err := s.deps.ClassRepo.GetByID(r.Context(), st.ClassID); err != nil {
		if errors.Is(err, student.ErrClassNotFound) {
			writeJSONError(w, http.StatusBadRequest, "Kelas tidak ditemukan")
			return
		}
		s.logger.Error("class lookup failed", logger.Err(err), logger.ClassID(st.ClassID))
		writeJSONError(w, http.StatusInternalServerError, "Gagal menyimpan siswa")
		return
	}

	if err := s.deps.StudentRepo.Create(r.Context(), st); err != nil {
		s.logger.Error("failed to create student", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "Gagal menyimpan siswa")
		return
	}

	writeJSON(w, http.StatusCreated, "Siswa berhasil ditambahkan", newStudentDTO(st))
}

// handleDeleteStudent handles DELETE /api/v1/admin/students/{id}.
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.deps.StudentRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			writeJSONError(w, http.StatusNotFound, "Siswa tidak ditemukan")
			return
		}
		s.logger.Error("failed to delete student", logger.Err(err), logger.StudentID(id))
		writeJSONError(w, http.StatusInternalServerError, "Gagal menghapus siswa")
		return
	}

	writeJSON(w, http.StatusOK, "Siswa dihapus", nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER ACCOUNT MANAGEMENT
// ══════════════════════════════════════════════════════════════════════════════

// CreateTeacherRequest is the request body for POST /api/v1/admin/teachers.
type CreateTeacherRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// handleListTeachers handles GET /api/v1/admin/teachers.
func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.deps.TeacherRepo.GetAll(r.Context())
	if err != nil {
		s.logger.Error("failed to list teachers", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "Gagal memuat daftar guru")
		return
	}

	dtos := make([]TeacherDTO, 0, len(teachers))
	for _, t := range teachers {
		dtos = append(dtos, newTeacherDTO(t))
	}

	writeJSON(w, http.StatusOK, "OK", dtos)
}

// handleCreateTeacher handles POST /api/v1/admin/teachers.
func (s *Server) handleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req CreateTeacherRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Format permintaan tidak valid")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			writeJSONError(w, http.StatusBadRequest, "Kata sandi minimal 8 karakter")
			return
		}
		s.logger.Error("password hash failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "Gagal menyimpan akun guru")
		return
	}

	account, err := teacher.NewTeacher(uuid.NewString(), req.Email, req.FullName, hash, teacher.Role(req.Role))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Email atau nama tidak valid")
		return
	}

	if err := s.deps.TeacherRepo.Create(r.Context(), account); err != nil {
		if errors.Is(err, teacher.ErrEmailTaken) {
			writeJSONError(w, http.StatusBadRequest, "Email sudah terdaftar")
			return
		}
		s.logger.Error("failed to create teacher", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "Gagal menyimpan akun guru")
		return
	}

	writeJSON(w, http.StatusCreated, "Akun guru berhasil dibuat", newTeacherDTO(account))
}

// handleDeleteTeacher handles DELETE /api/v1/admin/teachers/{id}.
func (s *Server) handleDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.deps.TeacherRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, teacher.ErrTeacherNotFound) {
			writeJSONError(w, http.StatusNotFound, "Akun guru tidak ditemukan")
			return
		}
		s.logger.Error("failed to delete teacher", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "Gagal menghapus akun guru")
		return
	}

	writeJSON(w, http.StatusOK, "Akun guru dihapus", nil)
}
