package server

import (
	"time"

	"github.com/at-ishikawa/microcourse/internal/course"
	"github.com/at-ishikawa/microcourse/internal/enrollment"
	"github.com/at-ishikawa/microcourse/internal/identity"
	"github.com/at-ishikawa/microcourse/internal/learner"
	"github.com/at-ishikawa/microcourse/internal/registration"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required_without=Phone"`
	Phone    string `json:"phone"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Principal identity.Principal `json:"principal"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type MeRequest struct{}

type MeResponse struct {
	Principal identity.Principal `json:"principal"`
}

type ListCoursesRequest struct {
	Statuses   []string `json:"statuses" validate:"dive,oneof=draft active approved archived"`
	Visibility string   `json:"visibility" validate:"omitempty,oneof=public private"`
	Query      string   `json:"query"`
}

type ListCoursesResponse struct {
	Courses []course.Course `json:"courses"`
}

type GetCourseRequest struct {
	ID int64 `json:"id" validate:"gt=0"`
}

type CourseResponse struct {
	Course course.Course `json:"course"`
}

type SetCourseStatusRequest struct {
	ID     int64  `json:"id" validate:"gt=0"`
	Status string `json:"status" validate:"required,oneof=draft active approved archived"`
}

type Learner struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone"`
	Status           string    `json:"status"`
	AssignedCourseID *int64    `json:"assigned_course_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func newLearner(l learner.Learner) Learner {
	return Learner{
		ID:               l.ID,
		Name:             l.Name,
		Email:            l.Email,
		Phone:            l.Phone,
		Status:           string(l.Status),
		AssignedCourseID: l.AssignedCourseID,
		CreatedAt:        l.CreatedAt,
	}
}

type CreateLearnerRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"required"`
}

type LearnerResponse struct {
	Learner Learner `json:"learner"`
}

type ListLearnersRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
	Query  string `json:"query"`
}

type ListLearnersResponse struct {
	Learners []Learner `json:"learners"`
}

type SetLearnerStatusRequest struct {
	ID     int64  `json:"id" validate:"gt=0"`
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

type CheckAssignmentRequest struct {
	LearnerID int64 `json:"learner_id" validate:"gt=0"`
	CourseID  int64 `json:"course_id" validate:"gt=0"`
}

type CheckAssignmentResponse struct {
	LearnerID         int64              `json:"learner_id"`
	CourseID          int64              `json:"course_id"`
	CourseName        string             `json:"course_name"`
	Phone             string             `json:"phone"`
	NeedsConfirmation bool               `json:"needs_confirmation"`
	Prompt            string             `json:"prompt,omitempty"`
	Conflict          *enrollment.Record `json:"conflict,omitempty"`
}

type AssignRequest struct {
	LearnerID int64 `json:"learner_id" validate:"gt=0"`
	CourseID  int64 `json:"course_id" validate:"gt=0"`
	// ConfirmRecordID is the id of the active enrollment the user agreed to suspend.
	ConfirmRecordID int64 `json:"confirm_record_id" validate:"gte=0"`
}

type AssignResponse struct {
	Record    enrollment.Record   `json:"record"`
	Suspended []enrollment.Record `json:"suspended"`
}

type UpdateProgressRequest struct {
	ID         int64  `json:"id" validate:"gt=0"`
	Status     string `json:"status" validate:"required,oneof=scheduled assigned started in_progress completed"`
	Percent    *int   `json:"percent" validate:"omitempty,min=0,max=100"`
	CurrentDay *int   `json:"current_day" validate:"omitempty,min=1"`
}

type RecordRequest struct {
	ID int64 `json:"id" validate:"gt=0"`
}

type RecordResponse struct {
	Record enrollment.Record `json:"record"`
}

type RemoveResponse struct{}

type ListEnrollmentsRequest struct {
	LearnerID int64  `json:"learner_id" validate:"gte=0"`
	CourseID  int64  `json:"course_id" validate:"gte=0"`
	Status    string `json:"status" validate:"omitempty,oneof=scheduled assigned started in_progress completed suspended"`
}

type ListEnrollmentsResponse struct {
	Records []enrollment.Record `json:"records"`
}

type SubmitRegistrationRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Password     string `json:"password" validate:"required,min=8"`
}

type RegistrationResponse struct {
	Request registration.Request `json:"request"`
}

type ListRegistrationsRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

type ListRegistrationsResponse struct {
	Requests []registration.Request `json:"requests"`
}

type ApproveRegistrationRequest struct {
	ID int64 `json:"id" validate:"gt=0"`
}

type RejectRegistrationRequest struct {
	ID   int64  `json:"id" validate:"gt=0"`
	Note string `json:"note"`
}
