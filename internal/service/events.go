package service

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-service/internal/logger"
)

// EventPublisher delivers notification events.  *queue.Publisher
// implements it; a nil publisher discards events.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// publish sends an event after the request's transaction committed.
// Failures are logged and never reach the caller.
func publish(ctx context.Context, p EventPublisher, routingKey string, event any) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.Publish(pctx, routingKey, event); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("routing_key", routingKey).Warn("event publish failed")
	}
}
