package notification

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogDispatcher(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDispatcher(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, d.NotifyAssigned(context.Background(), "Asha", "Savings", "+911234567890"))
	require.NoError(t, d.NotifySuspended(context.Background(), "Asha", "Crops", "+911234567890"))

	out := buf.String()
	assert.Contains(t, out, `msg="course assigned notice" learner=Asha course=Savings phone=+911234567890`)
	assert.Contains(t, out, `msg="course suspended notice" learner=Asha course=Crops phone=+911234567890`)
}
