package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/microcourse/internal/config"
	"github.com/at-ishikawa/microcourse/internal/learner"
)

//go:generate mockgen -source=authenticator.go -destination=../mocks/identity/mock_authenticator.go -package=mock_identity

// LearnerDirectory finds learners signing in with their phone number.
type LearnerDirectory interface {
	FindByPhone(ctx context.Context, phone string) (*learner.Learner, error)
}

// ExternalSessionVerifier resolves tokens issued by the hosted auth service.
type ExternalSessionVerifier interface {
	Verify(ctx context.Context, token string) (*ExternalUser, error)
}

// Credentials carries either an admin e-mail and password, or a learner phone and e-mail.
type Credentials struct {
	Email    string
	Password string
	Phone    string
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}

// Authenticator issues, restores and ends sessions for every kind of principal.
type Authenticator struct {
	tokens             tokenIssuer
	ttl                time.Duration
	accounts           AccountRepository
	learners           LearnerDirectory
	store              SessionStore
	external           ExternalSessionVerifier
	defaultCountryCode string
	now                func() time.Time
}

type AuthenticatorOption func(*Authenticator)

// WithExternalVerifier accepts hosted auth service tokens for admin accounts.
func WithExternalVerifier(v ExternalSessionVerifier) AuthenticatorOption {
	return func(a *Authenticator) {
		a.external = v
	}
}

func WithDefaultCountryCode(code string) AuthenticatorOption {
	return func(a *Authenticator) {
		a.defaultCountryCode = code
	}
}

func WithClock(now func() time.Time) AuthenticatorOption {
	return func(a *Authenticator) {
		a.now = now
	}
}

func NewAuthenticator(cfg config.AuthConfig, accounts AccountRepository, learners LearnerDirectory, store SessionStore, opts ...AuthenticatorOption) (*Authenticator, error) {
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret is required: set SESSION_SECRET")
	}
	a := &Authenticator{
		tokens:             tokenIssuer{secret: []byte(cfg.SessionSecret), issuer: cfg.Issuer},
		ttl:                cfg.SessionTTL,
		accounts:           accounts,
		learners:           learners,
		store:              store,
		defaultCountryCode: "+91",
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Login verifies credentials and starts a session. A phone number selects learner login.
func (a *Authenticator) Login(ctx context.Context, creds Credentials) (*Session, error) {
	var (
		p   Principal
		err error
	)
	if strings.TrimSpace(creds.Phone) != "" {
		p, err = a.loginLearner(ctx, creds)
	} else {
		p, err = a.loginAccount(ctx, creds)
	}
	if err != nil {
		return nil, err
	}

	now := a.now()
	token, sessionID, err := a.tokens.issue(p, now, a.ttl)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(ctx, sessionID, p, a.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	slog.Default().Debug("session started", "principal", p.String())
	return &Session{Token: token, ExpiresAt: now.Add(a.ttl), Principal: p}, nil
}

func (a *Authenticator) loginAccount(ctx context.Context, creds Credentials) (Principal, error) {
	if creds.Email == "" || creds.Password == "" {
		return Principal{}, ErrInvalidCredentials
	}
	account, err := a.accounts.FindByEmail(ctx, creds.Email)
	if err != nil {
		return Principal{}, fmt.Errorf("find account: %w", err)
	}
	if account == nil || !account.CheckPassword(creds.Password) {
		return Principal{}, ErrInvalidCredentials
	}
	if !account.Active() {
		return Principal{}, ErrAccountInactive
	}
	return account.Principal(), nil
}

func (a *Authenticator) loginLearner(ctx context.Context, creds Credentials) (Principal, error) {
	phone, err := learner.NormalizePhone(creds.Phone, a.defaultCountryCode)
	if err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	l, err := a.learners.FindByPhone(ctx, phone)
	if err != nil {
		return Principal{}, fmt.Errorf("find learner: %w", err)
	}
	if l == nil || l.Email == "" || !strings.EqualFold(l.Email, strings.TrimSpace(creds.Email)) {
		return Principal{}, ErrInvalidCredentials
	}
	if !l.Active() {
		return Principal{}, ErrAccountInactive
	}
	return Principal{ID: l.ID, Name: l.Name, Email: l.Email, Phone: l.Phone, Role: RoleLearner}, nil
}

// Restore returns the principal behind a session token.
func (a *Authenticator) Restore(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	sessionID, err := a.tokens.parse(token, a.now())
	if errors.Is(err, errForeignToken) {
		return a.restoreExternal(ctx, token)
	}
	if err != nil {
		return nil, err
	}

	p, err := a.store.Load(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("session ended: %w", ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return p, nil
}

func (a *Authenticator) restoreExternal(ctx context.Context, token string) (*Principal, error) {
	if a.external == nil {
		return nil, ErrUnauthenticated
	}
	user, err := a.external.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	account, err := a.accounts.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("no account for %s: %w", user.Email, ErrUnauthenticated)
	}
	if !account.Active() {
		return nil, ErrAccountInactive
	}
	p := account.Principal()
	return &p, nil
}

// Logout ends the session. Unknown, expired and external tokens are ignored.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	sessionID, err := a.tokens.parse(token, a.now())
	if err != nil {
		return nil
	}
	if err := a.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
