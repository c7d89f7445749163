package sheets

import (
	"context"

	"budget/internal/core"
)

// Mirror is an outbound read-only copy of the ledger, rebuilt in full on
// every sync.
type Mirror interface {
	SyncTransactions(ctx context.Context, views []core.TransactionView, currency core.Currency) error
	SyncMonthly(ctx context.Context, months []core.MonthlyTotals, currency core.Currency) error
}
