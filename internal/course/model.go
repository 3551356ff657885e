// Package course is the read model over per-day course rows and the rules deciding which courses can be assigned.
package course

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusApproved Status = "approved"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusApproved, StatusArchived:
		return true
	}
	return false
}

// Assignable reports whether courses in this status may be assigned to learners.
func (s Status) Assignable() bool {
	return s == StatusActive || s == StatusApproved
}

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseNotEligible = errors.New("course is not eligible for assignment")
	ErrInvalidStatus     = errors.New("invalid course status")
)

// Row is one stored day of a course.
type Row struct {
	ID         int64      `db:"id"`
	RequestID  string     `db:"request_id"`
	CourseName string     `db:"course_name"`
	Category   string     `db:"category"`
	Language   string     `db:"language"`
	Status     Status     `db:"status"`
	Visibility Visibility `db:"visibility"`
	Day        int        `db:"day"`
	Title      string     `db:"title"`
	Content    string     `db:"content"`
	MediaLink  string     `db:"media_link"`
	CreatedBy  *int64     `db:"created_by"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// groupKey identifies the logical course a row belongs to.
func (r Row) groupKey() string {
	if r.RequestID != "" {
		return "request:" + r.RequestID
	}
	return "name:" + r.CourseName
}

type Day struct {
	RowID     int64  `json:"row_id"`
	Number    int    `json:"day"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	MediaLink string `json:"media_link,omitempty"`
}

// Course is the group of rows sharing a request id, or a course name when the request id is empty.
// ID is the id of the lowest day row.
type Course struct {
	ID         int64      `json:"id"`
	RequestID  string     `json:"request_id,omitempty"`
	Name       string     `json:"name"`
	Category   string     `json:"category,omitempty"`
	Language   string     `json:"language,omitempty"`
	Status     Status     `json:"status"`
	Visibility Visibility `json:"visibility"`
	Days       []Day      `json:"days"`
}

// Eligible returns nil when the course can be assigned. Self-service assignment also needs public visibility.
func Eligible(c *Course, selfService bool) error {
	if !c.Status.Assignable() {
		return fmt.Errorf("%q has status %s: %w", c.Name, c.Status, ErrCourseNotEligible)
	}
	if selfService && c.Visibility != VisibilityPublic {
		return fmt.Errorf("%q is not public: %w", c.Name, ErrCourseNotEligible)
	}
	return nil
}

// Group folds rows into logical courses ordered by name then id.
func Group(rows []Row) []Course {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].ID < sorted[j].ID
	})

	index := make(map[string]int)
	var courses []Course
	for _, r := range sorted {
		key := r.groupKey()
		i, ok := index[key]
		if !ok {
			index[key] = len(courses)
			courses = append(courses, Course{
				ID:         r.ID,
				RequestID:  r.RequestID,
				Name:       r.CourseName,
				Category:   r.Category,
				Language:   r.Language,
				Status:     r.Status,
				Visibility: r.Visibility,
			})
			i = len(courses) - 1
		}
		courses[i].Days = append(courses[i].Days, Day{
			RowID:     r.ID,
			Number:    r.Day,
			Title:     r.Title,
			Content:   r.Content,
			MediaLink: r.MediaLink,
		})
	}

	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Name != courses[j].Name {
			return courses[i].Name < courses[j].Name
		}
		return courses[i].ID < courses[j].ID
	})
	return courses
}
