package enrollment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/microcourse/internal/course"
	"github.com/at-ishikawa/microcourse/internal/identity"
	"github.com/at-ishikawa/microcourse/internal/learner"
	"github.com/at-ishikawa/microcourse/internal/notification"
)

//go:generate mockgen -source=lifecycle.go -destination=../mocks/enrollment/mock_lifecycle.go -package=mock_enrollment

// LearnerStore is the part of the learner repository the lifecycle needs.
type LearnerStore interface {
	FindByID(ctx context.Context, id int64) (*learner.Learner, error)
	SetAssignedCourse(ctx context.Context, id int64, courseID *int64) error
}

// CourseCatalog resolves courses. The lifecycle trusts the returned status and visibility.
type CourseCatalog interface {
	GetCourse(ctx context.Context, id int64) (*course.Course, error)
}

type Service struct {
	records            Repository
	learners           LearnerStore
	courses            CourseCatalog
	notifier           notification.Dispatcher
	defaultCountryCode string
	now                func() time.Time
	logger             *slog.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithDefaultCountryCode(code string) Option {
	return func(s *Service) {
		s.defaultCountryCode = code
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(records Repository, learners LearnerStore, courses CourseCatalog, notifier notification.Dispatcher, opts ...Option) *Service {
	s := &Service{
		records:            records,
		learners:           learners,
		courses:            courses,
		notifier:           notifier,
		defaultCountryCode: "+91",
		now:                time.Now,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan is the outcome of checking an assignment before any state changes.
type Plan struct {
	Learner learner.Learner
	Course  course.Course
	// Phone is the normalized phone number scoping the learner's records.
	Phone string
	// Active holds the records Assign would suspend, newest first.
	Active []Record
	// Conflict is the record the acting user must confirm suspending, or nil.
	Conflict *Record
}

// NeedsConfirmation reports whether Assign requires ConfirmRecordID to name Conflict.
func (p *Plan) NeedsConfirmation() bool {
	return p.Conflict != nil
}

// CheckAssignment validates an assignment and reports the active record it would suspend.
// It never changes state.
func (s *Service) CheckAssignment(ctx context.Context, actor identity.Principal, learnerID, courseID int64) (*Plan, error) {
	if !actor.Role.Valid() {
		return nil, identity.ErrUnauthenticated
	}
	if learnerID == 0 {
		return nil, validationError("learner is required")
	}
	if courseID == 0 {
		return nil, validationError("course is required")
	}
	selfService := actor.Role == identity.RoleLearner
	if selfService && actor.ID != learnerID {
		return nil, fmt.Errorf("learners can only assign courses to themselves: %w", identity.ErrForbidden)
	}

	l, err := s.learners.FindByID(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("find learner %d: %w", learnerID, err)
	}
	if l == nil {
		return nil, fmt.Errorf("learner %d: %w", learnerID, learner.ErrLearnerNotFound)
	}
	if !l.Active() {
		return nil, validationError("learner %s is inactive", l.Name)
	}
	if l.Phone == "" {
		return nil, validationError("learner %s has no phone number", l.Name)
	}
	phone, err := learner.NormalizePhone(l.Phone, s.defaultCountryCode)
	if err != nil {
		return nil, validationError("learner %s: %v", l.Name, err)
	}

	c, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := course.Eligible(c, selfService); err != nil {
		return nil, err
	}

	active, err := s.records.FindActiveByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("find active records for %s: %w", phone, err)
	}
	for _, r := range active {
		if r.CourseID == c.ID {
			return nil, fmt.Errorf("%q: %w", c.Name, ErrAlreadyEnrolled)
		}
	}
	if selfService {
		for _, r := range active {
			if r.AdminAssigned {
				return nil, fmt.Errorf("%q: %w", r.CourseName, ErrAdminAssigned)
			}
		}
	}

	plan := &Plan{
		Learner: *l,
		Course:  *c,
		Phone:   phone,
		Active:  active,
	}
	if len(active) > 0 {
		plan.Conflict = &active[0]
	}
	return plan, nil
}

type AssignInput struct {
	LearnerID int64
	CourseID  int64
	// ConfirmRecordID is the active record the acting user agreed to suspend.
	// Zero means nothing was confirmed.
	ConfirmRecordID int64
}

type AssignResult struct {
	Record    Record
	Suspended []Record
}

// Assign enrolls a learner in a course. Active records for the learner's phone are
// suspended before the new record is inserted, and only when ConfirmRecordID names the
// record that is active now. A confirmation for any other record asks again.
// Notifications are sent after the insert; their failures are logged and ignored.
func (s *Service) Assign(ctx context.Context, actor identity.Principal, in AssignInput) (*AssignResult, error) {
	plan, err := s.CheckAssignment(ctx, actor, in.LearnerID, in.CourseID)
	if err != nil {
		return nil, err
	}
	if plan.NeedsConfirmation() && in.ConfirmRecordID != plan.Conflict.ID {
		return nil, &ConfirmationRequiredError{
			Existing:        *plan.Conflict,
			RequestedCourse: plan.Course.Name,
		}
	}

	result := &AssignResult{}
	for _, r := range plan.Active {
		if err := s.records.UpdateStatus(ctx, r.ID, StatusSuspended); err != nil {
			return nil, fmt.Errorf("suspend record %d: %w", r.ID, err)
		}
		r.Status = StatusSuspended
		result.Suspended = append(result.Suspended, r)
	}

	courseID := plan.Course.ID
	if err := s.learners.SetAssignedCourse(ctx, plan.Learner.ID, &courseID); err != nil {
		return nil, fmt.Errorf("set assigned course of learner %d: %w", plan.Learner.ID, err)
	}

	record := Record{
		LearnerID:       plan.Learner.ID,
		PhoneNumber:     plan.Phone,
		CourseID:        plan.Course.ID,
		CourseName:      plan.Course.Name,
		Status:          StatusAssigned,
		CurrentDay:      1,
		ProgressPercent: 0,
		AdminAssigned:   actor.Role.IsAdmin(),
		StartedAt:       s.now(),
	}
	if actor.Role.IsAdmin() {
		assignedBy := actor.ID
		record.AssignedBy = &assignedBy
	}
	if err := s.records.Create(ctx, &record); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	result.Record = record

	s.logger.InfoContext(ctx, "course assigned",
		"learner", plan.Learner.Name,
		"course", plan.Course.Name,
		"phone", plan.Phone,
		"by", actor.String(),
		"suspended", len(result.Suspended),
	)

	for _, r := range result.Suspended {
		s.notify(ctx, s.notifier.NotifySuspended, "suspended", plan.Learner.Name, r.CourseName, plan.Phone)
	}
	s.notify(ctx, s.notifier.NotifyAssigned, "assigned", plan.Learner.Name, plan.Course.Name, plan.Phone)
	return result, nil
}

type ProgressInput struct {
	Status Status
	// Percent is the measured progress. When nil the status's canonical percent is used.
	Percent *int
	// CurrentDay is left unchanged when nil.
	CurrentDay *int
}

// UpdateProgress moves a record between scheduled, assigned, started, in_progress and completed.
// The first completion time is kept when a completed record is completed again.
func (s *Service) UpdateProgress(ctx context.Context, actor identity.Principal, recordID int64, in ProgressInput) (*Record, error) {
	if !in.Status.Valid() || in.Status == StatusSuspended {
		return nil, validationError("status %q cannot be set by a progress update", in.Status)
	}
	if in.CurrentDay != nil && *in.CurrentDay < 1 {
		return nil, validationError("current day must be at least 1")
	}

	record, err := s.findRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsAdmin() && !(actor.Role == identity.RoleLearner && actor.ID == record.LearnerID) {
		return nil, fmt.Errorf("%s cannot update record %d: %w", actor, recordID, identity.ErrForbidden)
	}
	if record.Status == StatusSuspended {
		return nil, fmt.Errorf("record %d is suspended: %w", recordID, ErrInvalidTransition)
	}

	if in.Status.IsActive() && !record.IsActive() {
		active, err := s.records.FindActiveByPhone(ctx, record.PhoneNumber)
		if err != nil {
			return nil, fmt.Errorf("find active records for %s: %w", record.PhoneNumber, err)
		}
		if len(active) > 0 {
			return nil, fmt.Errorf("%q is already active for %s: %w", active[0].CourseName, record.PhoneNumber, ErrInvalidTransition)
		}
	}

	before := *record
	record.Status = in.Status
	if in.Percent != nil {
		record.ProgressPercent = clampPercent(*in.Percent)
	} else {
		record.ProgressPercent = in.Status.CanonicalPercent()
	}
	if in.CurrentDay != nil {
		record.CurrentDay = *in.CurrentDay
	}
	switch {
	case in.Status != StatusCompleted:
		record.CompletedAt = nil
	case record.CompletedAt == nil:
		completedAt := s.now()
		record.CompletedAt = &completedAt
	}
	if *record == before {
		return record, nil
	}

	if err := s.records.UpdateProgress(ctx, record); err != nil {
		return nil, fmt.Errorf("update record %d: %w", recordID, err)
	}
	return record, nil
}

// Suspend stops an active record without assigning another course. Admins only.
func (s *Service) Suspend(ctx context.Context, actor identity.Principal, recordID int64) (*Record, error) {
	if !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%s cannot suspend records: %w", actor, identity.ErrForbidden)
	}
	record, err := s.findRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !record.IsActive() {
		return nil, fmt.Errorf("record %d is %s: %w", recordID, record.Status, ErrInvalidTransition)
	}

	if err := s.records.UpdateStatus(ctx, record.ID, StatusSuspended); err != nil {
		return nil, fmt.Errorf("suspend record %d: %w", recordID, err)
	}
	record.Status = StatusSuspended

	l, err := s.detachCourse(ctx, record)
	if err != nil {
		return nil, err
	}
	name := record.PhoneNumber
	if l != nil {
		name = l.Name
	}
	s.notify(ctx, s.notifier.NotifySuspended, "suspended", name, record.CourseName, record.PhoneNumber)
	return record, nil
}

// Remove deletes a record and detaches the course from the learner. Admins only.
func (s *Service) Remove(ctx context.Context, actor identity.Principal, recordID int64) error {
	if !actor.Role.IsAdmin() {
		return fmt.Errorf("%s cannot remove records: %w", actor, identity.ErrForbidden)
	}
	record, err := s.findRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if err := s.records.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("delete record %d: %w", recordID, err)
	}
	if _, err := s.detachCourse(ctx, record); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "enrollment removed",
		"record", record.ID,
		"course", record.CourseName,
		"phone", record.PhoneNumber,
		"by", actor.String(),
	)
	return nil
}

// List returns records matching filter. Learners only see their own records.
func (s *Service) List(ctx context.Context, actor identity.Principal, filter Filter) ([]Record, error) {
	switch {
	case actor.Role.IsAdmin():
	case actor.Role == identity.RoleLearner:
		filter.LearnerID = 0
		filter.Phone = ""
		if actor.Phone != "" {
			phone, err := learner.NormalizePhone(actor.Phone, s.defaultCountryCode)
			if err != nil {
				return nil, validationError("%v", err)
			}
			filter.Phone = phone
		} else {
			filter.LearnerID = actor.ID
		}
	default:
		return nil, identity.ErrUnauthenticated
	}

	records, err := s.records.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	return records, nil
}

func (s *Service) findRecord(ctx context.Context, id int64) (*Record, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find record %d: %w", id, err)
	}
	if record == nil {
		return nil, fmt.Errorf("record %d: %w", id, ErrRecordNotFound)
	}
	return record, nil
}

// detachCourse clears the learner's assigned course when it points at the record's course.
func (s *Service) detachCourse(ctx context.Context, record *Record) (*learner.Learner, error) {
	l, err := s.learners.FindByID(ctx, record.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("find learner %d: %w", record.LearnerID, err)
	}
	if l == nil || l.AssignedCourseID == nil || *l.AssignedCourseID != record.CourseID {
		return l, nil
	}
	if err := s.learners.SetAssignedCourse(ctx, l.ID, nil); err != nil {
		return nil, fmt.Errorf("clear assigned course of learner %d: %w", l.ID, err)
	}
	l.AssignedCourseID = nil
	return l, nil
}

func (s *Service) notify(ctx context.Context, send func(context.Context, string, string, string) error, kind, learnerName, courseName, phone string) {
	if err := send(ctx, learnerName, courseName, phone); err != nil {
		s.logger.WarnContext(ctx, "failed to send "+kind+" notice",
			"learner", learnerName,
			"course", courseName,
			"phone", phone,
			"error", err,
		)
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
