package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
	"github.com/emoclass/emoclass-backend/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type fakeCheckinRepo struct {
	mu      sync.Mutex
	records []*checkin.Checkin
}

func (r *fakeCheckinRepo) seed(studentID string, emotion checkin.Emotion, createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]*checkin.Checkin{{
		ID:        studentID + "-" + createdAt.Format(time.RFC3339),
		StudentID: studentID,
		Emotion:   emotion,
		CreatedAt: createdAt,
	}}, r.records...)
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
	students []*student.Student
}

func (r *fakeStudentRepo) add(id, name, classID string) {
	r.students = append(r.students, &student.Student{ID: id, Name: name, ClassID: classID})
}

func (r *fakeStudentRepo) Create(ctx context.Context, s *student.Student) error {
	r.students = append(r.students, s)
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id string) (*student.Student, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetWithClass(ctx context.Context, id string) (*student.StudentWithClass, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &student.StudentWithClass{Student: *s}, nil
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
	_, err := r.GetByID(ctx, id)
	return err == nil, nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	for i, s := range r.students {
		if s.ID == id {
			r.students = append(r.students[:i], r.students[i+1:]...)
			return nil
		}
	}
	return student.ErrStudentNotFound
}

type fakeClassRepo struct {
	classes map[string]*student.Class
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: make(map[string]*student.Class)}
}

func (r *fakeClassRepo) add(id, name string) {
	r.classes[id] = &student.Class{ID: id, Name: name}
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

// fakeDashboardCache records hits and writes; get errors are injectable.
type fakeDashboardCache struct {
	mu     sync.Mutex
	stored map[string]*ClassDashboardDTO
	getErr error
	gets   int
	sets   int
}

func newFakeDashboardCache() *fakeDashboardCache {
	return &fakeDashboardCache{stored: make(map[string]*ClassDashboardDTO)}
}

func (c *fakeDashboardCache) GetClassDashboard(ctx context.Context, classID, date string) (*ClassDashboardDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.stored[classID+":"+date], nil
}

func (c *fakeDashboardCache) SetClassDashboard(ctx context.Context, classID, date string, dto *ClassDashboardDTO) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.stored[classID+":"+date] = dto
	return nil
}

var errCacheDown = errors.New("cache down")
