package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/at-ishikawa/microcourse/internal/config"
	"github.com/at-ishikawa/microcourse/internal/course"
	"github.com/at-ishikawa/microcourse/internal/database"
	"github.com/at-ishikawa/microcourse/internal/enrollment"
	"github.com/at-ishikawa/microcourse/internal/identity"
	"github.com/at-ishikawa/microcourse/internal/learner"
	"github.com/at-ishikawa/microcourse/internal/notification"
	"github.com/at-ishikawa/microcourse/internal/notification/sendgrid"
	"github.com/at-ishikawa/microcourse/internal/notification/whatsapp"
	"github.com/at-ishikawa/microcourse/internal/registration"
)

// app wires repositories and services for one command invocation.
type app struct {
	cfg         *config.Config
	db          *sqlx.DB
	accounts    *identity.DBAccountRepository
	learnerRepo *learner.DBRepository
	learners    *learner.Service
	catalog     *course.Catalog
	records     *enrollment.DBRepository
	enrollments *enrollment.Service
	closers     []func() error
}

func newApp(cfg *config.Config) (*app, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{
		cfg:         cfg,
		db:          db,
		accounts:    identity.NewDBAccountRepository(db),
		learnerRepo: learner.NewDBRepository(db),
		catalog:     course.NewCatalog(course.NewDBRepository(db)),
		records:     enrollment.NewDBRepository(db),
		closers:     []func() error{db.Close},
	}
	a.learners = learner.NewService(a.learnerRepo, cfg.Learners.DefaultCountryCode)
	a.enrollments = enrollment.NewService(a.records, a.learnerRepo, a.catalog, a.newDispatcher(),
		enrollment.WithDefaultCountryCode(cfg.Learners.DefaultCountryCode))
	return a, nil
}

func (a *app) newDispatcher() notification.Dispatcher {
	if !a.cfg.WhatsApp.Enabled {
		return notification.NewLogDispatcher(slog.Default())
	}
	client := whatsapp.NewClient(a.cfg.WhatsApp)
	a.closers = append(a.closers, client.Close)
	return client
}

func (a *app) newRegistrations() *registration.Service {
	var mailer registration.Mailer
	if a.cfg.SendGrid.APIKey != "" {
		mailer = sendgrid.NewMailer(a.cfg.SendGrid)
	}
	return registration.NewService(registration.NewDBRepository(a.db), a.accounts, mailer,
		a.cfg.Registration.DashboardURL, a.cfg.Learners.DefaultCountryCode)
}

// newSessionStore uses Redis when an address is configured and process memory otherwise.
func (a *app) newSessionStore(ctx context.Context) (identity.SessionStore, error) {
	if a.cfg.Redis.Address == "" {
		slog.Default().Warn("redis is not configured; sessions are kept in memory")
		return identity.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Address,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.Ping() > %w", err)
	}
	a.closers = append(a.closers, client.Close)
	return identity.NewRedisStore(client, a.cfg.Redis.KeyPrefix), nil
}

func (a *app) newAuthenticator(store identity.SessionStore) (*identity.Authenticator, error) {
	opts := []identity.AuthenticatorOption{
		identity.WithDefaultCountryCode(a.cfg.Learners.DefaultCountryCode),
	}
	if a.cfg.Auth.External.BaseURL != "" {
		opts = append(opts, identity.WithExternalVerifier(
			identity.NewExternalVerifier(a.cfg.Auth.External.BaseURL, a.cfg.Auth.External.APIKey)))
	}
	return identity.NewAuthenticator(a.cfg.Auth, a.accounts, a.learnerRepo, store, opts...)
}

// actor resolves the account a CLI command acts as.
func (a *app) actor(ctx context.Context, email string) (identity.Principal, error) {
	if email == "" {
		return identity.Principal{}, fmt.Errorf("--as is required: %w", identity.ErrUnauthenticated)
	}
	account, err := a.accounts.FindByEmail(ctx, email)
	if err != nil {
		return identity.Principal{}, err
	}
	if account == nil {
		return identity.Principal{}, fmt.Errorf("no account for %s: %w", email, identity.ErrUnauthenticated)
	}
	if !account.Active() {
		return identity.Principal{}, identity.ErrAccountInactive
	}
	return account.Principal(), nil
}

func (a *app) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
