package learner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/learner/mock_repository.go -package=mock_learner

// Repository defines operations for managing learners.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Learner, error)
	FindByPhone(ctx context.Context, phone string) (*Learner, error)
	FindAll(ctx context.Context, filter Filter) ([]Learner, error)
	Create(ctx context.Context, learner *Learner) error
	BatchCreate(ctx context.Context, learners []*Learner) error
	SetStatus(ctx context.Context, id int64, status Status) error
	SetAssignedCourse(ctx context.Context, id int64, courseID *int64) error
}

// Filter narrows FindAll. Zero values match everything.
type Filter struct {
	Status Status
	// Query matches a substring of name, email or phone.
	Query string
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindByID returns the learner with the given id, or nil if not found.
func (r *DBRepository) FindByID(ctx context.Context, id int64) (*Learner, error) {
	var l Learner
	err := r.db.GetContext(ctx, &l, "SELECT * FROM learners WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(learner) > %w", err)
	}
	return &l, nil
}

// FindByPhone returns the learner with the given normalized phone, or nil if not found.
func (r *DBRepository) FindByPhone(ctx context.Context, phone string) (*Learner, error) {
	var l Learner
	err := r.db.GetContext(ctx, &l, "SELECT * FROM learners WHERE phone = ?", phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(learner by phone) > %w", err)
	}
	return &l, nil
}

// FindAll returns learners matching filter ordered by name.
func (r *DBRepository) FindAll(ctx context.Context, filter Filter) ([]Learner, error) {
	query := "SELECT * FROM learners"
	var conditions []string
	var args []interface{}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + q + "%"
		conditions = append(conditions, "(name LIKE ? OR email LIKE ? OR phone LIKE ?)")
		args = append(args, like, like, like)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name, id"

	var learners []Learner
	if err := r.db.SelectContext(ctx, &learners, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(learners) > %w", err)
	}
	return learners, nil
}

// Create inserts a new learner.
func (r *DBRepository) Create(ctx context.Context, l *Learner) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO learners (name, email, phone, status, created_by) VALUES (?, ?, ?, ?, ?)",
		l.Name, l.Email, l.Phone, l.Status, l.CreatedBy)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%s: %w", l.Phone, ErrDuplicatePhone)
		}
		return fmt.Errorf("db.ExecContext(insert learner) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	l.ID = id
	return nil
}

// BatchCreate inserts learners with a single multi-row INSERT.
func (r *DBRepository) BatchCreate(ctx context.Context, learners []*Learner) error {
	if len(learners) == 0 {
		return nil
	}

	query := buildMultiRowInsert("learners", []string{"name", "email", "phone", "status", "created_by"}, len(learners))
	var args []interface{}
	for _, l := range learners {
		args = append(args, l.Name, l.Email, l.Phone, l.Status, l.CreatedBy)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("db.ExecContext(insert learners) > %w", err)
	}
	// MySQL hands out consecutive auto-increment IDs for a multi-row INSERT
	// when innodb_autoinc_lock_mode <= 1.
	firstID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	for i := range learners {
		learners[i].ID = firstID + int64(i)
	}
	return nil
}

// SetStatus activates or deactivates a learner.
func (r *DBRepository) SetStatus(ctx context.Context, id int64, status Status) error {
	return r.update(ctx, "UPDATE learners SET status = ? WHERE id = ?", status, id)
}

// SetAssignedCourse points the learner at courseID, or clears it when courseID is nil.
func (r *DBRepository) SetAssignedCourse(ctx context.Context, id int64, courseID *int64) error {
	return r.update(ctx, "UPDATE learners SET assigned_course_id = ? WHERE id = ?", courseID, id)
}

func (r *DBRepository) update(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update learner) > %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if n == 0 {
		return ErrLearnerNotFound
	}
	return nil
}

// buildMultiRowInsert builds a multi-row INSERT query.
func buildMultiRowInsert(table string, columns []string, rowCount int) string {
	placeholder := "(" + strings.Repeat("?, ", len(columns)-1) + "?)"
	values := strings.Repeat(placeholder+", ", rowCount-1) + placeholder
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, strings.Join(columns, ", "), values)
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
