package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/ports"
	"budget/internal/sheets"

	"github.com/robfig/cron/v3"
)

// ChangeSource delivers change events until its context ends.
type ChangeSource interface {
	Consume(ctx context.Context, handler func(context.Context, ports.ChangeEvent) error) error
}

// SyncWorker keeps the spreadsheet mirror in step with the store. Each sync
// rewrites the mirror from a full, unfiltered query.
type SyncWorker struct {
	query    ports.TransactionQuerier
	settings ports.SettingsStore
	mirror   sheets.Mirror
	fallback core.Currency

	mu sync.Mutex
}

func NewSyncWorker(query ports.TransactionQuerier, settings ports.SettingsStore, mirror sheets.Mirror, fallback core.Currency) *SyncWorker {
	return &SyncWorker{
		query:    query,
		settings: settings,
		mirror:   mirror,
		fallback: fallback,
	}
}

// HandleChange resynchronizes after a committed write. Returning an error
// makes the consumer requeue the event.
func (w *SyncWorker) HandleChange(ctx context.Context, ev ports.ChangeEvent) error {
	slog.InfoContext(ctx, "Processing change event",
		applog.FieldEntity, ev.Entity,
		applog.FieldOperation, ev.Action,
		applog.FieldID, ev.ID)

	if err := w.SyncAll(ctx); err != nil {
		return fmt.Errorf("sync after %s %s: %w", ev.Entity, ev.Action, err)
	}
	return nil
}

// SyncAll rewrites both mirror sheets. Concurrent calls are serialized.
func (w *SyncWorker) SyncAll(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	views, err := w.query.ListTransactions(ctx, core.Filter{})
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	settings, err := w.settings.GetSettings(ctx, w.fallback)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}

	if err := w.mirror.SyncTransactions(ctx, views, settings.Currency); err != nil {
		return fmt.Errorf("sync transactions sheet: %w", err)
	}
	if err := w.mirror.SyncMonthly(ctx, core.MonthlyComparison(views), settings.Currency); err != nil {
		return fmt.Errorf("sync monthly sheet: %w", err)
	}

	slog.InfoContext(ctx, "Mirror synchronized",
		applog.FieldOperation, applog.OpSync,
		applog.FieldCount, len(views),
		applog.FieldCurrency, settings.Currency)
	return nil
}

// Schedule runs SyncAll on the cron spec until the returned scheduler is stopped.
func (w *SyncWorker) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := w.SyncAll(ctx); err != nil {
			slog.ErrorContext(ctx, "Scheduled sync failed", applog.FieldError, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule sync %q: %w", spec, err)
	}
	c.Start()

	slog.InfoContext(ctx, "Scheduled mirror sync", "schedule", spec)
	return c, nil
}

// Run performs an initial sync, then follows the schedule and, when source is
// not nil, the change events. It returns when ctx is cancelled.
func (w *SyncWorker) Run(ctx context.Context, source ChangeSource, spec string) error {
	if err := w.SyncAll(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial sync failed", applog.FieldError, err)
	}

	if spec != "" {
		c, err := w.Schedule(ctx, spec)
		if err != nil {
			return err
		}
		defer func() { <-c.Stop().Done() }()
	}

	if source == nil {
		<-ctx.Done()
		return nil
	}

	err := source.Consume(ctx, w.HandleChange)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
