// Package service holds the business rules of filmorate: the friendship
// state machine, popularity ranking and the CRUD orchestration for films,
// users and the genre/rating catalog.  Services depend on
// repository.Store and run every operation inside one transaction.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/queue"
)

// EventPublisher receives activity events after a change commits.
// *queue.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// emit publishes ev when a publisher is configured.  Failures are logged
// and never reach the caller.
func emit(ctx context.Context, pub EventPublisher, log *zap.Logger, ev queue.ActivityEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn("activity event not published", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func utcNow() time.Time { return time.Now().UTC() }
