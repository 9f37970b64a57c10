package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emoclass/emoclass-backend/internal/application/command"
	"github.com/emoclass/emoclass-backend/internal/application/query"
	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
	"github.com/emoclass/emoclass-backend/internal/domain/student"
	"github.com/emoclass/emoclass-backend/internal/domain/teacher"
	"github.com/emoclass/emoclass-backend/internal/infrastructure/auth"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type fakeCheckinRepo struct {
	mu      sync.Mutex
	records []*checkin.Checkin
}

func (r *fakeCheckinRepo) Create(ctx context.Context, c *checkin.Checkin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]*checkin.Checkin{c}, r.records...)
	return nil
}

func (r *fakeCheckinRepo) GetRecentByStudent(ctx context.Context, studentID string, limit int) ([]*checkin.Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*checkin.Checkin
	for _, c := range r.records {
		if c.StudentID == studentID {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeCheckinRepo) ExistsForStudentBetween(ctx context.Context, studentID string, from, to time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.records {
		if c.StudentID == studentID && !c.CreatedAt.Before(from) && c.CreatedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCheckinRepo) GetByStudentsBetween(ctx context.Context, studentIDs []string, from, to time.Time) ([]*checkin.Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		ids[id] = true
	}
	var out []*checkin.Checkin
	for _, c := range r.records {
		if ids[c.StudentID] && !c.CreatedAt.Before(from) && c.CreatedAt.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCheckinRepo) CountByStudent(ctx context.Context, studentID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.records {
		if c.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

type fakeStudentRepo struct {
	students map[string]*student.Student
	classes  map[string]string
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		students: make(map[string]*student.Student),
		classes:  make(map[string]string),
	}
}

func (r *fakeStudentRepo) Create(ctx context.Context, s *student.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id string) (*student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) GetWithClass(ctx context.Context, id string) (*student.StudentWithClass, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return &student.StudentWithClass{Student: *s, ClassName: r.classes[s.ClassID]}, nil
}

func (r *fakeStudentRepo) GetByClass(ctx context.Context, classID string) ([]*student.Student, error) {
	var out []*student.Student
	for _, s := range r.students {
		if s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.students[id]
	return ok, nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.students[id]; !ok {
		return student.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

type fakeClassRepo struct {
	classes map[string]*student.Class
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: make(map[string]*student.Class)}
}

func (r *fakeClassRepo) Create(ctx context.Context, c *student.Class) error {
	r.classes[c.ID] = c
	return nil
}

func (r *fakeClassRepo) GetByID(ctx context.Context, id string) (*student.Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, student.ErrClassNotFound
	}
	return c, nil
}

func (r *fakeClassRepo) GetAll(ctx context.Context) ([]*student.Class, error) {
	var out []*student.Class
	for _, c := range r.classes {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeClassRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.classes[id]; !ok {
		return student.ErrClassNotFound
	}
	delete(r.classes, id)
	return nil
}

type fakeTeacherRepo struct {
	byEmail map[string]*teacher.Teacher
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{byEmail: make(map[string]*teacher.Teacher)}
}

func (r *fakeTeacherRepo) Create(ctx context.Context, t *teacher.Teacher) error {
	if _, ok := r.byEmail[t.Email]; ok {
		return teacher.ErrEmailTaken
	}
	r.byEmail[t.Email] = t
	return nil
}

func (r *fakeTeacherRepo) GetByID(ctx context.Context, id string) (*teacher.Teacher, error) {
	for _, t := range r.byEmail {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, teacher.ErrTeacherNotFound
}

func (r *fakeTeacherRepo) GetByEmail(ctx context.Context, email string) (*teacher.Teacher, error) {
	t, ok := r.byEmail[email]
	if !ok {
		return nil, teacher.ErrTeacherNotFound
	}
	return t, nil
}

func (r *fakeTeacherRepo) GetAll(ctx context.Context) ([]*teacher.Teacher, error) {
	var out []*teacher.Teacher
	for _, t := range r.byEmail {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTeacherRepo) SetActive(ctx context.Context, id string, active bool) error {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	t.IsActive = active
	return nil
}

func (r *fakeTeacherRepo) Delete(ctx context.Context, id string) error {
	for email, t := range r.byEmail {
		if t.ID == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return teacher.ErrTeacherNotFound
}

// ══════════════════════════════════════════════════════════════════════════════
// TEST SERVER SETUP
// ══════════════════════════════════════════════════════════════════════════════

const testJWTSecret = "test-secret-key"

type testEnv struct {
	server      *Server
	checkinRepo *fakeCheckinRepo
	studentRepo *fakeStudentRepo
	classRepo   *fakeClassRepo
	teacherRepo *fakeTeacherRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	checkinRepo := &fakeCheckinRepo{}
	studentRepo := newFakeStudentRepo()
	classRepo := newFakeClassRepo()
	teacherRepo := newFakeTeacherRepo()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	cfg.JWTSecret = testJWTSecret

	server := NewServer(cfg, Dependencies{
		SubmitCheckinHandler:     command.NewSubmitCheckinHandler(checkinRepo, nil, nil),
		GetClassDashboardHandler: query.NewGetClassDashboardHandler(studentRepo, classRepo, checkinRepo, nil, nil),
		GetWeeklyTrendHandler:    query.NewGetWeeklyTrendHandler(studentRepo, checkinRepo),
		StudentRepo:              studentRepo,
		ClassRepo:                classRepo,
		TeacherRepo:              teacherRepo,
	})

	return &testEnv{
		server:      server,
		checkinRepo: checkinRepo,
		studentRepo: studentRepo,
		classRepo:   classRepo,
		teacherRepo: teacherRepo,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	var envelope JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	return issueToken(t, "admin-1", string(teacher.RoleAdmin))
}

func (e *testEnv) teacherToken(t *testing.T) string {
	t.Helper()
	return issueToken(t, "teacher-1", string(teacher.RoleTeacher))
}

func issueToken(t *testing.T, subject, role string) string {
	t.Helper()
	pair, err := auth.Issue(subject, role, "emoclass", testJWTSecret, time.Hour, time.Hour)
	require.NoError(t, err)
	return pair.AccessToken
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECK-IN ENDPOINT
// ══════════════════════════════════════════════════════════════════════════════

func TestSubmitCheckin_Success(t *testing.T) {
	env := newTestEnv(t)

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/checkins", SubmitCheckinRequest{
		StudentID: "s-1",
		Emotion:   "happy",
		Note:      "  hari yang baik  ",
	}, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Check-in berhasil dicatat", envelope.Message)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var dto CheckinDTO
	require.NoError(t, json.Unmarshal(data, &dto))

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "s-1", dto.StudentID)
	assert.Equal(t, "happy", dto.Emotion)
	assert.Equal(t, "hari yang baik", dto.Note)
}

func TestSubmitCheckin_InvalidEmotion(t *testing.T) {
	env := newTestEnv(t)

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/checkins", SubmitCheckinRequest{
		StudentID: "s-1",
		Emotion:   "Happy",
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Pilihan emosi tidak dikenali", envelope.Message)
}

func TestSubmitCheckin_MissingStudent(t *testing.T) {
	env := newTestEnv(t)

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/checkins", SubmitCheckinRequest{
		Emotion: "happy",
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, envelope.Success)
}

func TestSubmitCheckin_DuplicateSameDay(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/checkins", SubmitCheckinRequest{
		StudentID: "s-1", Emotion: "happy",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/checkins", SubmitCheckinRequest{
		StudentID: "s-1", Emotion: "stressed",
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Kamu sudah check-in hari ini", envelope.Message)
}

func TestSubmitCheckin_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkins", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD ENDPOINT
// ══════════════════════════════════════════════════════════════════════════════

func TestGetClassDashboard_ClassNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, envelope := env.do(t, http.MethodGet, "/api/v1/classes/ghost/dashboard", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, envelope.Success)
}

func TestGetClassDashboard_Success(t *testing.T) {
	env := newTestEnv(t)

	class, err := student.NewClass("c-1", "7A")
	require.NoError(t, err)
	require.NoError(t, env.classRepo.Create(context.Background(), class))

	budi, err := student.NewStudent("s-1", "Budi Santoso", "c-1")
	require.NoError(t, err)
	require.NoError(t, env.studentRepo.Create(context.Background(), budi))

	rec, _ := env.do(t, http.MethodPost, "/api/v1/checkins", SubmitCheckinRequest{
		StudentID: "s-1", Emotion: "happy",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := env.do(t, http.MethodGet, "/api/v1/classes/c-1/dashboard", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var dto query.ClassDashboardDTO
	require.NoError(t, json.Unmarshal(data, &dto))

	assert.Equal(t, "7A", dto.ClassName)
	assert.Equal(t, 1, dto.TotalStudents)
	assert.Equal(t, 1, dto.CheckedIn)
	assert.Equal(t, 1, dto.Distribution["happy"])
}

func TestGetClassDashboard_BadDate(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/classes/c-1/dashboard?date=not-a-date", nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH & ADMIN ENDPOINTS
// ══════════════════════════════════════════════════════════════════════════════

func seedTeacher(t *testing.T, repo *fakeTeacherRepo, email, password string, role teacher.Role) *teacher.Teacher {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	account, err := teacher.NewTeacher("t-"+email, email, "Ibu Guru", hash, role)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	seedTeacher(t, env.teacherRepo, "guru@sekolah.id", "rahasia-123", teacher.RoleTeacher)

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "guru@sekolah.id",
		Password: "rahasia-123",
	}, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(data, &resp))

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "guru@sekolah.id", resp.Teacher.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	seedTeacher(t, env.teacherRepo, "guru@sekolah.id", "rahasia-123", teacher.RoleTeacher)

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "guru@sekolah.id",
		Password: "salah",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, envelope.Success)
}

func TestLogin_InactiveAccount(t *testing.T) {
	env := newTestEnv(t)
	account := seedTeacher(t, env.teacherRepo, "guru@sekolah.id", "rahasia-123", teacher.RoleTeacher)
	require.NoError(t, env.teacherRepo.SetActive(context.Background(), account.ID, false))

	rec, _ := env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "guru@sekolah.id",
		Password: "rahasia-123",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/admin/classes", CreateClassRequest{Name: "7A"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_TeacherForbiddenOnAdminRoute(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/admin/classes", CreateClassRequest{Name: "7A"}, env.teacherToken(t))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmin_CreateAndDeleteClass(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/admin/classes", CreateClassRequest{Name: "7A"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var dto ClassDTO
	require.NoError(t, json.Unmarshal(data, &dto))
	assert.Equal(t, "7A", dto.Name)

	rec, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/classes/%s", dto.ID), nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/classes/%s", dto.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_CreateStudentRequiresExistingClass(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/admin/students", CreateStudentRequest{
		Name: "Budi Santoso", ClassID: "ghost",
	}, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Kelas tidak ditemukan", envelope.Message)
}

func TestAdmin_CreateTeacher_ShortPassword(t *testing.T) {
	env := newTestEnv(t)

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/admin/teachers", CreateTeacherRequest{
		Email: "baru@sekolah.id", FullName: "Guru Baru", Password: "abc",
	}, env.adminToken(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Kata sandi minimal 8 karakter", envelope.Message)
}

func TestAdmin_ListClassesAllowsTeacherRole(t *testing.T) {
	env := newTestEnv(t)

	rec, envelope := env.do(t, http.MethodGet, "/api/v1/admin/classes", nil, env.teacherToken(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}

func TestHealth_Default(t *testing.T) {
	env := newTestEnv(t)

	rec, envelope := env.do(t, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}
