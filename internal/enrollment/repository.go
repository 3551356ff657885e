package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/enrollment/mock_repository.go -package=mock_enrollment

// Repository defines operations over course_progress rows.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Record, error)
	FindActiveByPhone(ctx context.Context, phone string) ([]Record, error)
	FindAll(ctx context.Context, filter Filter) ([]Record, error)
	Create(ctx context.Context, record *Record) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	UpdateProgress(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id int64) error
}

// Filter narrows FindAll. Zero values match everything.
type Filter struct {
	LearnerID int64
	Phone     string
	CourseID  int64
	Status    Status
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindByID returns the record with the given id, or nil if not found.
func (r *DBRepository) FindByID(ctx context.Context, id int64) (*Record, error) {
	var record Record
	err := r.db.GetContext(ctx, &record, "SELECT * FROM course_progress WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(course_progress) > %w", err)
	}
	return &record, nil
}

// FindActiveByPhone returns the active records of a phone number, newest first.
func (r *DBRepository) FindActiveByPhone(ctx context.Context, phone string) ([]Record, error) {
	query, args, err := sqlx.In(
		"SELECT * FROM course_progress WHERE phone_number = ? AND status IN (?) ORDER BY created_at DESC, id DESC",
		phone, ActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(active course_progress) > %w", err)
	}

	var records []Record
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(active course_progress) > %w", err)
	}
	return records, nil
}

// FindAll returns records matching filter, newest first.
func (r *DBRepository) FindAll(ctx context.Context, filter Filter) ([]Record, error) {
	query := "SELECT * FROM course_progress"
	var conditions []string
	var args []interface{}
	if filter.LearnerID != 0 {
		conditions = append(conditions, "learner_id = ?")
		args = append(args, filter.LearnerID)
	}
	if filter.Phone != "" {
		conditions = append(conditions, "phone_number = ?")
		args = append(args, filter.Phone)
	}
	if filter.CourseID != 0 {
		conditions = append(conditions, "course_id = ?")
		args = append(args, filter.CourseID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	var records []Record
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(course_progress) > %w", err)
	}
	return records, nil
}

// Create inserts a new record and sets its ID.
func (r *DBRepository) Create(ctx context.Context, record *Record) error {
	result, err := r.db.NamedExecContext(ctx, `INSERT INTO course_progress
(learner_id, phone_number, course_id, course_name, status, current_day, progress_percent, admin_assigned, assigned_by, started_at, completed_at)
VALUES (:learner_id, :phone_number, :course_id, :course_name, :status, :current_day, :progress_percent, :admin_assigned, :assigned_by, :started_at, :completed_at)`,
		record)
	if err != nil {
		return fmt.Errorf("db.NamedExecContext(insert course_progress) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	record.ID = id
	return nil
}

// UpdateStatus changes only the status, leaving progress and current day untouched.
func (r *DBRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return r.update(ctx, "UPDATE course_progress SET status = ? WHERE id = ?", status, id)
}

// UpdateProgress writes status, current day, percent and completion time.
func (r *DBRepository) UpdateProgress(ctx context.Context, record *Record) error {
	return r.update(ctx,
		"UPDATE course_progress SET status = ?, current_day = ?, progress_percent = ?, completed_at = ? WHERE id = ?",
		record.Status, record.CurrentDay, record.ProgressPercent, record.CompletedAt, record.ID)
}

// Delete removes the record.
func (r *DBRepository) Delete(ctx context.Context, id int64) error {
	return r.update(ctx, "DELETE FROM course_progress WHERE id = ?", id)
}

func (r *DBRepository) update(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db.ExecContext(course_progress) > %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}
