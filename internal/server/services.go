// Package server provides Connect RPC handlers for the dashboard API.
package server

import (
	"context"

	"github.com/at-ishikawa/microcourse/internal/course"
	"github.com/at-ishikawa/microcourse/internal/enrollment"
	"github.com/at-ishikawa/microcourse/internal/identity"
	"github.com/at-ishikawa/microcourse/internal/learner"
	"github.com/at-ishikawa/microcourse/internal/registration"
)

//go:generate mockgen -source=services.go -destination=../mocks/server/mock_services.go -package=mock_server

type Authenticator interface {
	Login(ctx context.Context, creds identity.Credentials) (*identity.Session, error)
	Logout(ctx context.Context, token string) error
	Restore(ctx context.Context, token string) (*identity.Principal, error)
}

type CourseCatalog interface {
	ListCourses(ctx context.Context, actor identity.Principal, filter course.Filter) ([]course.Course, error)
	GetCourse(ctx context.Context, id int64) (*course.Course, error)
	SetStatus(ctx context.Context, actor identity.Principal, id int64, status course.Status) (*course.Course, error)
}

type LearnerService interface {
	Create(ctx context.Context, in learner.CreateInput) (*learner.Learner, error)
	List(ctx context.Context, filter learner.Filter) ([]learner.Learner, error)
	SetStatus(ctx context.Context, id int64, status learner.Status) (*learner.Learner, error)
}

type EnrollmentService interface {
	CheckAssignment(ctx context.Context, actor identity.Principal, learnerID, courseID int64) (*enrollment.Plan, error)
	Assign(ctx context.Context, actor identity.Principal, in enrollment.AssignInput) (*enrollment.AssignResult, error)
	UpdateProgress(ctx context.Context, actor identity.Principal, recordID int64, in enrollment.ProgressInput) (*enrollment.Record, error)
	Suspend(ctx context.Context, actor identity.Principal, recordID int64) (*enrollment.Record, error)
	Remove(ctx context.Context, actor identity.Principal, recordID int64) error
	List(ctx context.Context, actor identity.Principal, filter enrollment.Filter) ([]enrollment.Record, error)
}

type RegistrationService interface {
	Submit(ctx context.Context, in registration.SubmitInput) (*registration.Request, error)
	List(ctx context.Context, actor identity.Principal, status registration.Status) ([]registration.Request, error)
	Approve(ctx context.Context, actor identity.Principal, id int64) (*registration.Request, error)
	Reject(ctx context.Context, actor identity.Principal, id int64, note string) (*registration.Request, error)
}
