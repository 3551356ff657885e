// Package notification sends best-effort messages to learners about their enrollments.
package notification

import (
	"context"
	"log/slog"
)

//go:generate mockgen -source=notification.go -destination=../mocks/notification/mock_notification.go -package=mock_notification

// Dispatcher delivers enrollment notices. Callers treat errors as non-fatal.
type Dispatcher interface {
	NotifyAssigned(ctx context.Context, learnerName, courseName, phone string) error
	NotifySuspended(ctx context.Context, learnerName, courseName, phone string) error
}

// LogDispatcher writes notices to the log instead of sending them.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) NotifyAssigned(ctx context.Context, learnerName, courseName, phone string) error {
	d.logger.InfoContext(ctx, "course assigned notice",
		"learner", learnerName,
		"course", courseName,
		"phone", phone,
	)
	return nil
}

func (d *LogDispatcher) NotifySuspended(ctx context.Context, learnerName, courseName, phone string) error {
	d.logger.InfoContext(ctx, "course suspended notice",
		"learner", learnerName,
		"course", courseName,
		"phone", phone,
	)
	return nil
}
