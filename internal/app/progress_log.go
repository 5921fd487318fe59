package app

import (
	"context"

	"go.uber.org/zap"

	"coursebot/internal/models"
)

// zapProgressLog writes progress rows to the application log only
type zapProgressLog struct {
	logger *zap.Logger
}

func newZapProgressLog(logger *zap.Logger) *zapProgressLog {
	return &zapProgressLog{logger: logger.Named("progress_log")}
}

func (l *zapProgressLog) AppendRow(ctx context.Context, entry models.ProgressEntry) error {
	l.logger.Info("Progress row",
		zap.String("user_id", entry.UserID),
		zap.String("course", entry.Course),
		zap.String("progress", entry.Status),
		zap.Time("logged_at", entry.LoggedAt),
	)
	return nil
}

func (l *zapProgressLog) Close() error { return nil }
