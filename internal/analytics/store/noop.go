package store

import (
	"context"

	"github.com/serroba/clubin-web/internal/analytics"
	"go.uber.org/zap"
)

// Noop logs events instead of persisting them. Used when no database is
// configured.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a logging analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveShortLinkCreated(_ context.Context, event *analytics.ShortLinkCreatedEvent) error {
	n.logger.Info("short link created",
		zap.String("code", event.Code),
		zap.String("type", event.Type),
		zap.String("targetId", event.TargetID),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveShortLinkResolved(_ context.Context, event *analytics.ShortLinkResolvedEvent) error {
	n.logger.Info("short link resolved",
		zap.String("code", event.Code),
		zap.String("type", event.Type),
		zap.String("targetId", event.TargetID),
		zap.String("referrer", event.Referrer),
		zap.Time("resolvedAt", event.ResolvedAt),
	)

	return nil
}

func (n *Noop) SaveAppOpenAttempted(_ context.Context, event *analytics.AppOpenAttemptedEvent) error {
	n.logger.Info("app open attempted",
		zap.String("attemptId", event.AttemptID),
		zap.String("type", event.Type),
		zap.String("targetId", event.TargetID),
		zap.String("platform", event.Platform),
		zap.Time("attemptedAt", event.AttemptedAt),
	)

	return nil
}
