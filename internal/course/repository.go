package course

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/course/mock_repository.go -package=mock_course

// Repository defines operations over stored course rows.
type Repository interface {
	FindRows(ctx context.Context, filter Filter) ([]Row, error)
	// FindGroupRows returns every row of the course containing the row with the given id.
	FindGroupRows(ctx context.Context, id int64) ([]Row, error)
	UpdateGroupStatus(ctx context.Context, requestID, courseName string, status Status) error
	BatchCreate(ctx context.Context, rows []*Row) error
}

// Filter narrows course listings. Zero values match everything.
type Filter struct {
	Statuses   []Status
	Visibility Visibility
	// Query matches a substring of the course name or category.
	Query string
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindRows returns the rows matching filter.
func (r *DBRepository) FindRows(ctx context.Context, filter Filter) ([]Row, error) {
	query := "SELECT * FROM courses"
	var conditions []string
	var args []interface{}
	if len(filter.Statuses) > 0 {
		conditions = append(conditions, "status IN (?)")
		args = append(args, filter.Statuses)
	}
	if filter.Visibility != "" {
		conditions = append(conditions, "visibility = ?")
		args = append(args, filter.Visibility)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + q + "%"
		conditions = append(conditions, "(course_name LIKE ? OR category LIKE ?)")
		args = append(args, like, like)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY course_name, day, id"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(courses) > %w", err)
	}

	var rows []Row
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(courses) > %w", err)
	}
	return rows, nil
}

// FindGroupRows returns an empty slice when the id does not exist.
func (r *DBRepository) FindGroupRows(ctx context.Context, id int64) ([]Row, error) {
	var rows []Row
	err := r.db.SelectContext(ctx, &rows, `SELECT c.* FROM courses c
JOIN courses anchor ON anchor.id = ?
WHERE (anchor.request_id <> '' AND c.request_id = anchor.request_id)
   OR (anchor.request_id = '' AND c.request_id = '' AND c.course_name = anchor.course_name)
ORDER BY c.day, c.id`, id)
	if err != nil {
		return nil, fmt.Errorf("db.SelectContext(course group) > %w", err)
	}
	return rows, nil
}

// UpdateGroupStatus sets the status of every row of one course.
func (r *DBRepository) UpdateGroupStatus(ctx context.Context, requestID, courseName string, status Status) error {
	var err error
	if requestID != "" {
		_, err = r.db.ExecContext(ctx, "UPDATE courses SET status = ? WHERE request_id = ?", status, requestID)
	} else {
		_, err = r.db.ExecContext(ctx, "UPDATE courses SET status = ? WHERE request_id = '' AND course_name = ?", status, courseName)
	}
	if err != nil {
		return fmt.Errorf("db.ExecContext(update course status) > %w", err)
	}
	return nil
}

// BatchCreate inserts rows with a single multi-row INSERT.
func (r *DBRepository) BatchCreate(ctx context.Context, rows []*Row) error {
	if len(rows) == 0 {
		return nil
	}

	columns := []string{"request_id", "course_name", "category", "language", "status", "visibility", "day", "title", "content", "media_link", "created_by"}
	placeholder := "(" + strings.Repeat("?, ", len(columns)-1) + "?)"
	query := fmt.Sprintf("INSERT INTO courses (%s) VALUES %s",
		strings.Join(columns, ", "),
		strings.Repeat(placeholder+", ", len(rows)-1)+placeholder)

	var args []interface{}
	for _, row := range rows {
		args = append(args, row.RequestID, row.CourseName, row.Category, row.Language, row.Status,
			row.Visibility, row.Day, row.Title, row.Content, row.MediaLink, row.CreatedBy)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert courses) > %w", err)
	}
	firstID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	for i := range rows {
		rows[i].ID = firstID + int64(i)
	}
	return nil
}
