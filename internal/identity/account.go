package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// Account is an admin or super-admin login.
type Account struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (a Account) Active() bool {
	return a.Status == "active"
}

func (a Account) Principal() Principal {
	return Principal{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone, Role: a.Role}
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword() > %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the account's hash.
func (a Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

//go:generate mockgen -source=account.go -destination=../mocks/identity/mock_account.go -package=mock_identity

// AccountRepository defines operations for admin and super-admin accounts.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	Create(ctx context.Context, account *Account) error
}

// DBAccountRepository implements AccountRepository using MySQL.
type DBAccountRepository struct {
	db *sqlx.DB
}

func NewDBAccountRepository(db *sqlx.DB) *DBAccountRepository {
	return &DBAccountRepository{db: db}
}

// FindByEmail returns the account with the given email, or nil if not found.
func (r *DBAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := r.db.GetContext(ctx, &account, "SELECT * FROM accounts WHERE email = ?", strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(account by email) > %w", err)
	}
	return &account, nil
}

// FindByID returns the account with the given id, or nil if not found.
func (r *DBAccountRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	var account Account
	err := r.db.GetContext(ctx, &account, "SELECT * FROM accounts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(account) > %w", err)
	}
	return &account, nil
}

// Create inserts a new account.
func (r *DBAccountRepository) Create(ctx context.Context, account *Account) error {
	id, err := InsertAccount(ctx, r.db, account)
	if err != nil {
		return err
	}
	account.ID = id
	return nil
}

// InsertAccount inserts account with any executor, so callers can create accounts inside their own transaction.
func InsertAccount(ctx context.Context, exec sqlx.ExecerContext, account *Account) (int64, error) {
	result, err := exec.ExecContext(ctx,
		`INSERT INTO accounts (name, email, phone, password_hash, role, status) VALUES (?, ?, ?, ?, ?, ?)`,
		account.Name, strings.ToLower(strings.TrimSpace(account.Email)), account.Phone, account.PasswordHash, account.Role, account.Status)
	if err != nil {
		return 0, fmt.Errorf("db.ExecContext(insert account) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("result.LastInsertId() > %w", err)
	}
	return id, nil
}
