package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/microcourse/internal/config"
	"github.com/at-ishikawa/microcourse/internal/identity"
	"github.com/at-ishikawa/microcourse/internal/learner"
	mock_identity "github.com/at-ishikawa/microcourse/internal/mocks/identity"
)

var authConfig = config.AuthConfig{
	SessionSecret: "s3cret",
	SessionTTL:    time.Hour,
	Issuer:        "microcourse",
}

type authFixture struct {
	accounts *mock_identity.MockAccountRepository
	learners *mock_identity.MockLearnerDirectory
	external *mock_identity.MockExternalSessionVerifier
	store    *identity.MemoryStore
	auth     *identity.Authenticator
	now      time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &authFixture{
		accounts: mock_identity.NewMockAccountRepository(ctrl),
		learners: mock_identity.NewMockLearnerDirectory(ctrl),
		external: mock_identity.NewMockExternalSessionVerifier(ctrl),
		store:    identity.NewMemoryStore(),
		now:      time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}
	auth, err := identity.NewAuthenticator(authConfig, f.accounts, f.learners, f.store,
		identity.WithExternalVerifier(f.external),
		identity.WithClock(func() time.Time { return f.now }),
	)
	require.NoError(t, err)
	f.auth = auth
	return f
}

func adminAccount(t *testing.T, status string) *identity.Account {
	t.Helper()
	hash, err := identity.HashPassword("correct horse")
	require.NoError(t, err)
	return &identity.Account{
		ID:           4,
		Name:         "Meera",
		Email:        "meera@example.com",
		PasswordHash: hash,
		Role:         identity.RoleAdmin,
		Status:       status,
	}
}

func TestNewAuthenticator_RequiresSecret(t *testing.T) {
	_, err := identity.NewAuthenticator(config.AuthConfig{SessionTTL: time.Hour}, nil, nil, identity.NewMemoryStore())
	assert.Error(t, err)
}

func TestAuthenticator_AccountLogin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		creds   identity.Credentials
		account func(t *testing.T) *identity.Account
		wantErr error
	}{
		{
			name:    "valid password",
			creds:   identity.Credentials{Email: "meera@example.com", Password: "correct horse"},
			account: func(t *testing.T) *identity.Account { return adminAccount(t, "active") },
		},
		{
			name:    "wrong password",
			creds:   identity.Credentials{Email: "meera@example.com", Password: "battery staple"},
			account: func(t *testing.T) *identity.Account { return adminAccount(t, "active") },
			wantErr: identity.ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			creds:   identity.Credentials{Email: "nobody@example.com", Password: "correct horse"},
			account: func(t *testing.T) *identity.Account { return nil },
			wantErr: identity.ErrInvalidCredentials,
		},
		{
			name:    "inactive account",
			creds:   identity.Credentials{Email: "meera@example.com", Password: "correct horse"},
			account: func(t *testing.T) *identity.Account { return adminAccount(t, "inactive") },
			wantErr: identity.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.accounts.EXPECT().FindByEmail(gomock.Any(), tt.creds.Email).Return(tt.account(t), nil)

			session, err := f.auth.Login(ctx, tt.creds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, identity.RoleAdmin, session.Principal.Role)
			assert.Equal(t, f.now.Add(time.Hour), session.ExpiresAt)

			restored, err := f.auth.Restore(ctx, session.Token)
			require.NoError(t, err)
			assert.Equal(t, session.Principal, *restored)
		})
	}
}

func TestAuthenticator_AccountLoginMissingPassword(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.auth.Login(context.Background(), identity.Credentials{Email: "meera@example.com"})
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestAuthenticator_LearnerLogin(t *testing.T) {
	ctx := context.Background()
	asha := &learner.Learner{ID: 7, Name: "Asha", Email: "asha@example.com", Phone: "+911234567890", Status: learner.StatusActive}

	tests := []struct {
		name     string
		creds    identity.Credentials
		found    *learner.Learner
		wantCall bool
		wantErr  error
	}{
		{
			name:     "national number and email in another case",
			creds:    identity.Credentials{Phone: "12345 67890", Email: "ASHA@example.com"},
			found:    asha,
			wantCall: true,
		},
		{
			name:     "email mismatch",
			creds:    identity.Credentials{Phone: "+911234567890", Email: "ravi@example.com"},
			found:    asha,
			wantCall: true,
			wantErr:  identity.ErrInvalidCredentials,
		},
		{
			name:     "unknown phone",
			creds:    identity.Credentials{Phone: "+911234567890", Email: "asha@example.com"},
			wantCall: true,
			wantErr:  identity.ErrInvalidCredentials,
		},
		{
			name:    "malformed phone",
			creds:   identity.Credentials{Phone: "12ab", Email: "asha@example.com"},
			wantErr: identity.ErrInvalidCredentials,
		},
		{
			name:     "inactive learner",
			creds:    identity.Credentials{Phone: "+911234567890", Email: "asha@example.com"},
			found:    &learner.Learner{ID: 7, Email: "asha@example.com", Phone: "+911234567890", Status: learner.StatusInactive},
			wantCall: true,
			wantErr:  identity.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			if tt.wantCall {
				f.learners.EXPECT().FindByPhone(gomock.Any(), "+911234567890").Return(tt.found, nil)
			}

			session, err := f.auth.Login(ctx, tt.creds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, identity.Principal{
				ID:    7,
				Name:  "Asha",
				Email: "asha@example.com",
				Phone: "+911234567890",
				Role:  identity.RoleLearner,
			}, session.Principal)
		})
	}
}

func TestAuthenticator_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.auth.Restore(ctx, "")
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})

	t.Run("expired session", func(t *testing.T) {
		f := newAuthFixture(t)
		f.accounts.EXPECT().FindByEmail(gomock.Any(), "meera@example.com").Return(adminAccount(t, "active"), nil)
		session, err := f.auth.Login(ctx, identity.Credentials{Email: "meera@example.com", Password: "correct horse"})
		require.NoError(t, err)

		f.now = f.now.Add(2 * time.Hour)
		_, err = f.auth.Restore(ctx, session.Token)
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})

	t.Run("logged out session", func(t *testing.T) {
		f := newAuthFixture(t)
		f.accounts.EXPECT().FindByEmail(gomock.Any(), "meera@example.com").Return(adminAccount(t, "active"), nil)
		session, err := f.auth.Login(ctx, identity.Credentials{Email: "meera@example.com", Password: "correct horse"})
		require.NoError(t, err)

		require.NoError(t, f.auth.Logout(ctx, session.Token))
		_, err = f.auth.Restore(ctx, session.Token)
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})

	t.Run("external token of a known admin", func(t *testing.T) {
		f := newAuthFixture(t)
		f.external.EXPECT().Verify(gomock.Any(), "external-token").
			Return(&identity.ExternalUser{ID: "u-1", Email: "meera@example.com"}, nil)
		f.accounts.EXPECT().FindByEmail(gomock.Any(), "meera@example.com").Return(adminAccount(t, "active"), nil)

		got, err := f.auth.Restore(ctx, "external-token")
		require.NoError(t, err)
		assert.Equal(t, identity.RoleAdmin, got.Role)
		assert.Equal(t, int64(4), got.ID)
	})

	t.Run("external token without account", func(t *testing.T) {
		f := newAuthFixture(t)
		f.external.EXPECT().Verify(gomock.Any(), "external-token").
			Return(&identity.ExternalUser{ID: "u-1", Email: "stranger@example.com"}, nil)
		f.accounts.EXPECT().FindByEmail(gomock.Any(), "stranger@example.com").Return(nil, nil)

		_, err := f.auth.Restore(ctx, "external-token")
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})

	t.Run("external service rejects token", func(t *testing.T) {
		f := newAuthFixture(t)
		f.external.EXPECT().Verify(gomock.Any(), "external-token").
			Return(nil, errors.Join(errors.New("external session rejected"), identity.ErrUnauthenticated))

		_, err := f.auth.Restore(ctx, "external-token")
		assert.ErrorIs(t, err, identity.ErrUnauthenticated)
	})
}

func TestAuthenticator_LogoutIgnoresUnknownTokens(t *testing.T) {
	f := newAuthFixture(t)
	assert.NoError(t, f.auth.Logout(context.Background(), "not-a-session"))
}
