package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/microcourse/internal/database"
	"github.com/at-ishikawa/microcourse/internal/identity"
)

//go:generate mockgen -source=repository.go -destination=../mocks/registration/mock_repository.go -package=mock_registration

// Repository defines operations for registration requests.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	FindByID(ctx context.Context, id int64) (*Request, error)
	FindPendingByEmail(ctx context.Context, email string) (*Request, error)
	ListByStatus(ctx context.Context, status Status) ([]Request, error)
	// Approve marks a pending request approved and creates its account atomically, returning the account id.
	Approve(ctx context.Context, id int64, reviewerID int64, reviewedAt time.Time, account *identity.Account) (int64, error)
	Reject(ctx context.Context, id int64, reviewerID int64, reviewedAt time.Time, note string) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) Create(ctx context.Context, req *Request) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO registration_requests (name, email, phone, organization, password_hash, status, review_note) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.Name, req.Email, req.Phone, req.Organization, req.PasswordHash, req.Status, req.ReviewNote)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert registration request) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	req.ID = id
	return nil
}

// FindByID returns the request with the given id, or nil if not found.
func (r *DBRepository) FindByID(ctx context.Context, id int64) (*Request, error) {
	var req Request
	err := r.db.GetContext(ctx, &req, "SELECT * FROM registration_requests WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(registration request) > %w", err)
	}
	return &req, nil
}

// FindPendingByEmail returns the pending request for email, or nil if there is none.
func (r *DBRepository) FindPendingByEmail(ctx context.Context, email string) (*Request, error) {
	var req Request
	err := r.db.GetContext(ctx, &req,
		"SELECT * FROM registration_requests WHERE email = ? AND status = ? ORDER BY id DESC LIMIT 1",
		email, StatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(pending registration request) > %w", err)
	}
	return &req, nil
}

func (r *DBRepository) ListByStatus(ctx context.Context, status Status) ([]Request, error) {
	var requests []Request
	if err := r.db.SelectContext(ctx, &requests,
		"SELECT * FROM registration_requests WHERE status = ? ORDER BY created_at, id", status); err != nil {
		return nil, fmt.Errorf("db.SelectContext(registration requests) > %w", err)
	}
	return requests, nil
}

func (r *DBRepository) Approve(ctx context.Context, id int64, reviewerID int64, reviewedAt time.Time, account *identity.Account) (int64, error) {
	var accountID int64
	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := review(ctx, tx, id, StatusApproved, reviewerID, reviewedAt, ""); err != nil {
			return err
		}
		var err error
		accountID, err = identity.InsertAccount(ctx, tx, account)
		return err
	})
	if err != nil {
		return 0, err
	}
	return accountID, nil
}

func (r *DBRepository) Reject(ctx context.Context, id int64, reviewerID int64, reviewedAt time.Time, note string) error {
	return review(ctx, r.db, id, StatusRejected, reviewerID, reviewedAt, note)
}

// review moves a pending request to status; a request that is no longer pending yields ErrAlreadyReviewed.
func review(ctx context.Context, exec sqlx.ExecerContext, id int64, status Status, reviewerID int64, reviewedAt time.Time, note string) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE registration_requests SET status = ?, review_note = ?, reviewed_by = ?, reviewed_at = ? WHERE id = ? AND status = ?`,
		status, note, reviewerID, reviewedAt, id, StatusPending)
	if err != nil {
		return fmt.Errorf("db.ExecContext(review registration request) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return ErrAlreadyReviewed
	}
	return nil
}
