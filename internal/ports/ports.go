package ports

import (
	"context"
	"time"

	"budget/internal/core"
)

// Ports for the persistence and messaging adapters.
type (
	// TransactionQuerier lists transactions matching a filter, newest first,
	// each enriched with its category.
	TransactionQuerier interface {
		ListTransactions(ctx context.Context, f core.Filter) ([]core.TransactionView, error)
	}

	// TransactionWriter persists transactions. Update and Delete report
	// whether a row was affected.
	TransactionWriter interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) error
		UpdateTransaction(ctx context.Context, tx core.Transaction) (bool, error)
		DeleteTransaction(ctx context.Context, id string) (bool, error)
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id string) (core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) error
		UpdateCategory(ctx context.Context, c core.Category) (bool, error)
		// DeleteCategory removes the category and clears it from every
		// transaction that referenced it.
		DeleteCategory(ctx context.Context, id string) (bool, error)
	}

	SettingsStore interface {
		// GetSettings returns the settings row, creating it with def on first access.
		GetSettings(ctx context.Context, def core.Currency) (core.Settings, error)
		SetCurrency(ctx context.Context, c core.Currency) (core.Settings, error)
	}

	// Store is everything a backend provides.
	Store interface {
		TransactionQuerier
		TransactionWriter
		CategoryStore
		SettingsStore
		Ping(ctx context.Context) error
		Close() error
	}

	// EventPublisher announces committed writes.
	EventPublisher interface {
		PublishChange(ctx context.Context, ev ChangeEvent) error
	}

	// Clock returns the current local time.
	Clock func() time.Time
)

// Entities and actions carried by change events.
const (
	EntityTransaction = "transaction"
	EntityCategory    = "category"
	EntitySettings    = "settings"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent describes one committed write.
type ChangeEvent struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}
