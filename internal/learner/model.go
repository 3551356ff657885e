// Package learner manages learner records, phone normalization and bulk import/export.
package learner

import (
	"errors"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Learner is a person receiving courses over WhatsApp. Phone is stored normalized.
type Learner struct {
	ID               int64     `db:"id"`
	Name             string    `db:"name"`
	Email            string    `db:"email"`
	Phone            string    `db:"phone"`
	Status           Status    `db:"status"`
	AssignedCourseID *int64    `db:"assigned_course_id"`
	CreatedBy        *int64    `db:"created_by"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (l Learner) Active() bool {
	return l.Status == StatusActive
}

var (
	ErrLearnerNotFound = errors.New("learner not found")
	ErrDuplicatePhone  = errors.New("a learner with this phone number already exists")
	ErrInvalidPhone    = errors.New("invalid phone number")
)
