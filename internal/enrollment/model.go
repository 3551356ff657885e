// Package enrollment owns the course assignment lifecycle: assign with overwrite protection,
// progress updates, suspension and removal, scoped by the learner's normalized phone number.
package enrollment

import (
	"time"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusAssigned   Status = "assigned"
	StatusStarted    Status = "started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSuspended  Status = "suspended"
)

// ActiveStatuses are the statuses of which a phone number may hold at most one record.
var ActiveStatuses = []Status{StatusAssigned, StatusStarted, StatusInProgress}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusAssigned, StatusStarted, StatusInProgress, StatusCompleted, StatusSuspended:
		return true
	}
	return false
}

func (s Status) IsActive() bool {
	return s == StatusAssigned || s == StatusStarted || s == StatusInProgress
}

// CanonicalPercent is the progress shown for a status when no measured percent is given.
func (s Status) CanonicalPercent() int {
	switch s {
	case StatusStarted, StatusInProgress:
		return 50
	case StatusCompleted:
		return 100
	default:
		return 0
	}
}

// Record is one learner's enrollment in one course.
type Record struct {
	ID              int64      `db:"id" json:"id"`
	LearnerID       int64      `db:"learner_id" json:"learner_id"`
	PhoneNumber     string     `db:"phone_number" json:"phone_number"`
	CourseID        int64      `db:"course_id" json:"course_id"`
	CourseName      string     `db:"course_name" json:"course_name"`
	Status          Status     `db:"status" json:"status"`
	CurrentDay      int        `db:"current_day" json:"current_day"`
	ProgressPercent int        `db:"progress_percent" json:"progress_percent"`
	AdminAssigned   bool       `db:"admin_assigned" json:"admin_assigned"`
	AssignedBy      *int64     `db:"assigned_by" json:"assigned_by,omitempty"`
	StartedAt       time.Time  `db:"started_at" json:"started_at"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

func (r Record) IsActive() bool {
	return r.Status.IsActive()
}
