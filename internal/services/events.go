package services

import (
	"context"
	"log/slog"
	"time"

	applog "budget/internal/log"
	"budget/internal/ports"
)

// publisher wraps an optional ports.EventPublisher. Publishing is best effort:
// the write has already been committed when it runs.
type publisher struct {
	events ports.EventPublisher
	now    ports.Clock
}

func (p publisher) publish(ctx context.Context, entity, action, id string) {
	if p.events == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping change event",
			applog.FieldEntity, entity, applog.FieldID, id)
		return
	}

	ev := ports.ChangeEvent{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: p.now().UTC(),
	}
	if err := p.events.PublishChange(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change event",
			applog.FieldEntity, entity,
			applog.FieldID, id,
			applog.FieldOperation, action,
			applog.FieldError, err)
	}
}

func clockOrNow(c ports.Clock) ports.Clock {
	if c == nil {
		return time.Now
	}
	return c
}
