package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/microcourse/internal/bootstrap"
	"github.com/at-ishikawa/microcourse/internal/server"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	lifecycle := bootstrap.New()
	lifecycle.OnShutdown(func(ctx context.Context) error {
		return a.Close()
	})

	store, err := a.newSessionStore(ctx)
	if err != nil {
		return errors.Join(err, lifecycle.Shutdown(ctx))
	}
	auth, err := a.newAuthenticator(store)
	if err != nil {
		return errors.Join(err, lifecycle.Shutdown(ctx))
	}

	handler, err := server.NewHandler(server.Services{
		Auth:          auth,
		Courses:       a.catalog,
		Learners:      a.learners,
		Enrollments:   a.enrollments,
		Registrations: a.newRegistrations(),
	})
	if err != nil {
		return errors.Join(fmt.Errorf("server.NewHandler() > %w", err), lifecycle.Shutdown(ctx))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.CORS(h2c.NewHandler(handler, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}
	lifecycle.OnShutdown(srv.Shutdown)

	return lifecycle.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}
