package registration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/microcourse/internal/identity"
)

var requestColumns = []string{"id", "name", "email", "phone", "organization", "password_hash", "status", "review_note", "reviewed_by", "reviewed_at", "created_at"}

func newMockRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDBRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestDBRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("INSERT INTO registration_requests").
		WithArgs("Kiran", "kiran@example.com", "", "Village School", "hash", StatusPending, "").
		WillReturnResult(sqlmock.NewResult(12, 1))

	req := &Request{Name: "Kiran", Email: "kiran@example.com", Organization: "Village School", PasswordHash: "hash", Status: StatusPending}
	require.NoError(t, repo.Create(context.Background(), req))
	assert.Equal(t, int64(12), req.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_FindPendingByEmail(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rows *sqlmock.Rows
		want *Request
	}{
		{
			name: "found",
			rows: sqlmock.NewRows(requestColumns).
				AddRow(12, "Kiran", "kiran@example.com", "", "", "hash", "pending", "", nil, nil, now),
			want: &Request{ID: 12, Name: "Kiran", Email: "kiran@example.com", PasswordHash: "hash", Status: StatusPending, CreatedAt: now},
		},
		{
			name: "none",
			rows: sqlmock.NewRows(requestColumns),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectQuery("SELECT \\* FROM registration_requests WHERE email = \\? AND status = \\?").
				WithArgs("kiran@example.com", StatusPending).
				WillReturnRows(tt.rows)

			got, err := repo.FindPendingByEmail(context.Background(), "kiran@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Approve(t *testing.T) {
	reviewedAt := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	account := &identity.Account{Name: "Kiran", Email: "kiran@example.com", PasswordHash: "hash", Role: identity.RoleAdmin, Status: "active"}

	t.Run("updates the request and creates the account in one transaction", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE registration_requests SET status = \\?").
			WithArgs(StatusApproved, "", int64(1), reviewedAt, int64(12), StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO accounts").
			WithArgs("Kiran", "kiran@example.com", "", "hash", identity.RoleAdmin, "active").
			WillReturnResult(sqlmock.NewResult(30, 1))
		mock.ExpectCommit()

		id, err := repo.Approve(context.Background(), 12, 1, reviewedAt, account)
		require.NoError(t, err)
		assert.Equal(t, int64(30), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("request reviewed meanwhile rolls back", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE registration_requests SET status = \\?").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.Approve(context.Background(), 12, 1, reviewedAt, account)
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("account insert failure rolls back", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE registration_requests SET status = \\?").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO accounts").
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		_, err := repo.Approve(context.Background(), 12, 1, reviewedAt, account)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBRepository_Reject(t *testing.T) {
	reviewedAt := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	repo, mock := newMockRepository(t)
	mock.ExpectExec("UPDATE registration_requests SET status = \\?").
		WithArgs(StatusRejected, "incomplete", int64(1), reviewedAt, int64(12), StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Reject(context.Background(), 12, 1, reviewedAt, "incomplete"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
