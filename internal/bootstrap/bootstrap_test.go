package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	t.Run("serve returns nil", func(t *testing.T) {
		app := New()
		closed := false
		app.OnShutdown(func(ctx context.Context) error {
			closed = true
			return nil
		})

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
		assert.True(t, closed)
	})

	t.Run("serve error is returned with close errors", func(t *testing.T) {
		app := New()
		serveErr := errors.New("listen failed")
		closeErr := errors.New("close failed")
		app.OnShutdown(func(ctx context.Context) error {
			return closeErr
		})

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return serveErr
		})
		assert.ErrorIs(t, err, serveErr)
		assert.ErrorIs(t, err, closeErr)
	})

	t.Run("shutdown functions run in reverse order on cancel", func(t *testing.T) {
		app := New()
		var mu sync.Mutex
		var order []string
		for _, name := range []string{"database", "redis", "http"} {
			app.OnShutdown(func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		block := make(chan struct{})
		defer close(block)
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-block
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"http", "redis", "database"}, order)
	})
}

func TestApp_ShutdownRunsOnce(t *testing.T) {
	app := New()
	calls := 0
	app.OnShutdown(func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, app.Shutdown(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}
