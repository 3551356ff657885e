package enrollment

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation wraps missing or invalid input.
	ErrValidation = errors.New("invalid enrollment request")
	// ErrAlreadyEnrolled is returned when the learner already has the course active.
	ErrAlreadyEnrolled = errors.New("learner is already enrolled in this course")
	// ErrAdminAssigned is returned when a learner tries to replace a course an admin assigned.
	ErrAdminAssigned     = errors.New("current course was assigned by an admin and cannot be replaced")
	ErrRecordNotFound    = errors.New("enrollment record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ConfirmationRequiredError is returned by Assign when an active record would be suspended
// and the caller has not confirmed the overwrite.
type ConfirmationRequiredError struct {
	Existing        Record
	RequestedCourse string
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("assigning %q will suspend the current course %q; confirmation required", e.RequestedCourse, e.Existing.CourseName)
}

// Prompt is the yes/no question to put to the acting user.
func (e *ConfirmationRequiredError) Prompt() string {
	return fmt.Sprintf("%q is currently in progress (day %d, %d%%). Suspend it and assign %q?",
		e.Existing.CourseName, e.Existing.CurrentDay, e.Existing.ProgressPercent, e.RequestedCourse)
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
