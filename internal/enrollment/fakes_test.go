package enrollment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/at-ishikawa/microcourse/internal/course"
	"github.com/at-ishikawa/microcourse/internal/learner"
)

// memoryRepository keeps records in memory and logs every write in order.
type memoryRepository struct {
	records map[int64]Record
	nextID  int64
	writes  []string
}

func newMemoryRepository(records ...Record) *memoryRepository {
	repo := &memoryRepository{records: make(map[int64]Record), nextID: 100}
	for _, r := range records {
		repo.records[r.ID] = r
	}
	return repo
}

func (m *memoryRepository) FindByID(_ context.Context, id int64) (*Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memoryRepository) FindActiveByPhone(_ context.Context, phone string) ([]Record, error) {
	return m.filter(func(r Record) bool { return r.PhoneNumber == phone && r.IsActive() }), nil
}

func (m *memoryRepository) FindAll(_ context.Context, f Filter) ([]Record, error) {
	return m.filter(func(r Record) bool {
		return (f.LearnerID == 0 || r.LearnerID == f.LearnerID) &&
			(f.Phone == "" || r.PhoneNumber == f.Phone) &&
			(f.CourseID == 0 || r.CourseID == f.CourseID) &&
			(f.Status == "" || r.Status == f.Status)
	}), nil
}

func (m *memoryRepository) Create(_ context.Context, r *Record) error {
	m.nextID++
	r.ID = m.nextID
	m.records[r.ID] = *r
	m.writes = append(m.writes, fmt.Sprintf("create:%d", r.ID))
	return nil
}

func (m *memoryRepository) UpdateStatus(_ context.Context, id int64, status Status) error {
	r, ok := m.records[id]
	if !ok {
		return ErrRecordNotFound
	}
	r.Status = status
	m.records[id] = r
	m.writes = append(m.writes, fmt.Sprintf("status:%d:%s", id, status))
	return nil
}

func (m *memoryRepository) UpdateProgress(_ context.Context, r *Record) error {
	if _, ok := m.records[r.ID]; !ok {
		return ErrRecordNotFound
	}
	m.records[r.ID] = *r
	m.writes = append(m.writes, fmt.Sprintf("progress:%d:%s", r.ID, r.Status))
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.records, id)
	m.writes = append(m.writes, fmt.Sprintf("delete:%d", id))
	return nil
}

func (m *memoryRepository) filter(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memoryRepository) activeCount(phone string) int {
	active, _ := m.FindActiveByPhone(context.Background(), phone)
	return len(active)
}

type fakeLearners struct {
	learners map[int64]*learner.Learner
}

func newFakeLearners(learners ...learner.Learner) *fakeLearners {
	f := &fakeLearners{learners: make(map[int64]*learner.Learner)}
	for i := range learners {
		l := learners[i]
		f.learners[l.ID] = &l
	}
	return f
}

func (f *fakeLearners) FindByID(_ context.Context, id int64) (*learner.Learner, error) {
	l, ok := f.learners[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLearners) SetAssignedCourse(_ context.Context, id int64, courseID *int64) error {
	l, ok := f.learners[id]
	if !ok {
		return learner.ErrLearnerNotFound
	}
	l.AssignedCourseID = courseID
	return nil
}

type fakeCatalog map[int64]course.Course

func (f fakeCatalog) GetCourse(_ context.Context, id int64) (*course.Course, error) {
	c, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("course %d: %w", id, course.ErrCourseNotFound)
	}
	return &c, nil
}

// recordingDispatcher records notices as "kind|learner|course|phone".
type recordingDispatcher struct {
	sent []string
	err  error
}

func (d *recordingDispatcher) NotifyAssigned(_ context.Context, learnerName, courseName, phone string) error {
	d.sent = append(d.sent, fmt.Sprintf("assigned|%s|%s|%s", learnerName, courseName, phone))
	return d.err
}

func (d *recordingDispatcher) NotifySuspended(_ context.Context, learnerName, courseName, phone string) error {
	d.sent = append(d.sent, fmt.Sprintf("suspended|%s|%s|%s", learnerName, courseName, phone))
	return d.err
}

var (
	fixedNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	errWhatsAppDown = errors.New("whatsapp unavailable")

	courseX = course.Course{ID: 10, Name: "Savings Basics", Status: course.StatusApproved, Visibility: course.VisibilityPrivate}
	courseY = course.Course{ID: 20, Name: "Crop Rotation", Status: course.StatusActive, Visibility: course.VisibilityPublic}
	courseZ = course.Course{ID: 30, Name: "Kitchen Garden", Status: course.StatusActive, Visibility: course.VisibilityPublic}
	draft   = course.Course{ID: 40, Name: "Unreviewed", Status: course.StatusDraft, Visibility: course.VisibilityPublic}

	asha = learner.Learner{ID: 7, Name: "Asha", Phone: "+911234567890", Status: learner.StatusActive}
)

func defaultCatalog() fakeCatalog {
	return fakeCatalog{courseX.ID: courseX, courseY.ID: courseY, courseZ.ID: courseZ, draft.ID: draft}
}

type fixture struct {
	records  *memoryRepository
	learners *fakeLearners
	notifier *recordingDispatcher
	service  *Service
}

func newFixture(records ...Record) *fixture {
	f := &fixture{
		records:  newMemoryRepository(records...),
		learners: newFakeLearners(asha, learner.Learner{ID: 8, Name: "Ravi", Phone: "98123 45678", Status: learner.StatusActive}),
		notifier: &recordingDispatcher{},
	}
	f.service = NewService(f.records, f.learners, defaultCatalog(), f.notifier, WithClock(func() time.Time { return fixedNow }))
	return f
}
