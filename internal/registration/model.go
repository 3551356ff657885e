// Package registration handles sign-up requests from prospective admins and their review by the super-admin.
package registration

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Request is a pending, approved or rejected registration.
type Request struct {
	ID           int64      `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	Organization string     `db:"organization" json:"organization"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Status       Status     `db:"status" json:"status"`
	ReviewNote   string     `db:"review_note" json:"review_note"`
	ReviewedBy   *int64     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

var (
	ErrInvalidRequest  = errors.New("invalid registration")
	ErrRequestNotFound = errors.New("registration request not found")
	ErrDuplicate       = errors.New("a registration or account with this email already exists")
	ErrAlreadyReviewed = errors.New("registration request was already reviewed")
)
