package course

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/microcourse/internal/identity"
)

// EligibleStatuses are used by ListEligibleCourses when the filter names no statuses.
var EligibleStatuses = []Status{StatusActive, StatusApproved}

// Catalog answers course queries for the dashboard and the enrollment lifecycle.
type Catalog struct {
	repo Repository
}

func NewCatalog(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

// ListEligibleCourses returns grouped courses matching filter.
func (c *Catalog) ListEligibleCourses(ctx context.Context, filter Filter) ([]Course, error) {
	if len(filter.Statuses) == 0 {
		filter.Statuses = EligibleStatuses
	}
	rows, err := c.repo.FindRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find course rows: %w", err)
	}
	return Group(rows), nil
}

// ListCourses returns grouped courses visible to the principal.
// Learners only see assignable public courses.
func (c *Catalog) ListCourses(ctx context.Context, actor identity.Principal, filter Filter) ([]Course, error) {
	if !actor.Role.IsAdmin() {
		filter.Statuses = nil
		filter.Visibility = VisibilityPublic
		return c.ListEligibleCourses(ctx, filter)
	}
	rows, err := c.repo.FindRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find course rows: %w", err)
	}
	return Group(rows), nil
}

// GetCourse returns the course containing the row id.
func (c *Catalog) GetCourse(ctx context.Context, id int64) (*Course, error) {
	rows, err := c.repo.FindGroupRows(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find course %d: %w", id, err)
	}
	courses := Group(rows)
	if len(courses) == 0 {
		return nil, fmt.Errorf("course %d: %w", id, ErrCourseNotFound)
	}
	return &courses[0], nil
}

// SetStatus changes the status of a whole course. Only the super-admin may do this.
func (c *Catalog) SetStatus(ctx context.Context, actor identity.Principal, id int64, status Status) (*Course, error) {
	if actor.Role != identity.RoleSuperAdmin {
		return nil, fmt.Errorf("%s cannot change course status: %w", actor, identity.ErrForbidden)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	course, err := c.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Status == status {
		return course, nil
	}
	if err := c.repo.UpdateGroupStatus(ctx, course.RequestID, course.Name, status); err != nil {
		return nil, fmt.Errorf("update course %d status: %w", course.ID, err)
	}
	slog.Info("course status changed",
		"course", course.Name,
		"from", course.Status,
		"to", status,
		"by", actor.String(),
	)
	course.Status = status
	return course, nil
}
