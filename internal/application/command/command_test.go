package command

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/emoclass/emoclass-backend/internal/domain/checkin"
	"github.com/emoclass/emoclass-backend/internal/domain/shared"
	"github.com/emoclass/emoclass-backend/internal/domain/student"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes shared by the command tests.
// ──────────────────────────────────────────────────────────────────────────────

type fakeCheckinRepo struct {
	mu       sync.Mutex
	records  []*checkin.Checkin
	createFn func(c *checkin.Checkin) error
}

func newFakeCheckinRepo() *fakeCheckinRepo {
	return &fakeCheckinRepo{}
}

func (r *fakeCheckinRepo) Create(_ context.Context, c *checkin.Checkin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFn != nil {
		if err := r.createFn(c); err != nil {
			return err
		}
	}
	r.records = append([]*checkin.Checkin{c}, r.records...)
	return nil
}

func (r *fakeCheckinRepo) GetRecentByStudent(_ context.Context, studentID string, limit int) ([]*checkin.Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*checkin.Checkin, 0, limit)
	for _, c := range r.records {
		if c.StudentID != studentID {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeCheckinRepo) ExistsForStudentBetween(_ context.Context, studentID string, from, to time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.records {
		if c.StudentID == studentID && !c.CreatedAt.Before(from) && c.CreatedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCheckinRepo) GetByStudentsBetween(_ context.Context, studentIDs []string, from, to time.Time) ([]*checkin.Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}
	var out []*checkin.Checkin
	for _, c := range r.records {
		if wanted[c.StudentID] && !c.CreatedAt.Before(from) && c.CreatedAt.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCheckinRepo) CountByStudent(_ context.Context, studentID string) (int, error) {
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

// seed inserts a record directly, bypassing validation.
func (r *fakeCheckinRepo) seed(studentID string, emotion checkin.Emotion, createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]*checkin.Checkin{{
		ID:        "seed-" + createdAt.Format("20060102"),
		StudentID: studentID,
		Emotion:   emotion,
		CreatedAt: createdAt,
	}}, r.records...)
}

type fakeStudentRepo struct {
	students map[string]*student.StudentWithClass
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[string]*student.StudentWithClass)}
}

func (r *fakeStudentRepo) add(id, name, classID, className string) {
	r.students[id] = &student.StudentWithClass{
		Student:   student.Student{ID: id, Name: name, ClassID: classID},
		ClassName: className,
	}
}

func (r *fakeStudentRepo) Create(_ context.Context, s *student.Student) error {
	r.students[s.ID] = &student.StudentWithClass{Student: *s}
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	sw, ok := r.students[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	s := sw.Student
	return &s, nil
}

func (r *fakeStudentRepo) GetWithClass(_ context.Context, id string) (*student.StudentWithClass, error) {
	sw, ok := r.students[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return sw, nil
}

func (r *fakeStudentRepo) GetByClass(_ context.Context, classID string) ([]*student.Student, error) {
	var out []*student.Student
	for _, sw := range r.students {
		if sw.Student.ClassID == classID {
			s := sw.Student
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.students[id]
	return ok, nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id string) error {
	delete(r.students, id)
	return nil
}

type fakeEventBus struct {
	mu     sync.Mutex
	events []shared.Event
	err    error
}

func (b *fakeEventBus) Subscribe(shared.EventType, shared.EventHandler) error { return nil }

func (b *fakeEventBus) Publish(event shared.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, event)
	return nil
}

func (b *fakeEventBus) Close() error { return nil }

func (b *fakeEventBus) published() []shared.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]shared.Event(nil), b.events...)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, text)
	return nil
}

func (n *fakeNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

var errBoom = errors.New("boom")
