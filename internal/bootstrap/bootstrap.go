// Package bootstrap runs the API server until it fails or the process is asked to stop.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 15 * time.Second

// App owns the resources opened by a command and closes them on shutdown.
type App struct {
	mu              sync.Mutex
	closers         []func(ctx context.Context) error
	shutdownTimeout time.Duration
	signals         []os.Signal
}

func New() *App {
	return &App{
		shutdownTimeout: defaultShutdownTimeout,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

// OnShutdown registers fn to run when the app stops. Functions run in reverse order of registration.
func (a *App) OnShutdown(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, fn)
}

// Run calls serve and waits for it to return or for SIGINT/SIGTERM.
// On a signal, registered shutdown functions get shutdownTimeout to finish.
func (a *App) Run(ctx context.Context, serve func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, a.signals...)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(ctx)
	}()

	select {
	case err := <-errCh:
		return errors.Join(err, a.Shutdown(context.Background()))
	case <-ctx.Done():
		slog.Default().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	}
}

// Shutdown runs the registered functions once and joins their errors.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
