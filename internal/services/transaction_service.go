package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionInput carries the user-editable fields of a transaction.
type TransactionInput struct {
	Amount      decimal.Decimal
	Type        core.TransactionType
	Date        core.Date
	Description string
	CategoryID  *string
}

// TransactionService validates and persists transactions, then announces the
// change. Storage comes first; the event is best effort.
type TransactionService struct {
	transactions ports.TransactionWriter
	categories   ports.CategoryStore
	events       publisher
	now          ports.Clock
}

func NewTransactionService(tx ports.TransactionWriter, categories ports.CategoryStore, events ports.EventPublisher, clock ports.Clock) *TransactionService {
	clock = clockOrNow(clock)
	return &TransactionService{
		transactions: tx,
		categories:   categories,
		events:       publisher{events: events, now: clock},
		now:          clock,
	}
}

// Create validates in and stores it as a new transaction.
func (s *TransactionService) Create(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	tx := s.build(uuid.NewString(), in)
	if err := s.validate(ctx, tx); err != nil {
		return core.Transaction{}, err
	}

	if err := s.transactions.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.events.publish(ctx, ports.EntityTransaction, ports.ActionCreated, tx.ID)
	return tx, nil
}

// Update replaces the fields of transaction id. An unknown id is a no-op.
func (s *TransactionService) Update(ctx context.Context, id string, in TransactionInput) (core.Transaction, error) {
	tx := s.build(id, in)
	if err := s.validate(ctx, tx); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.transactions.UpdateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if !updated {
		slog.InfoContext(ctx, "Transaction not found, nothing to update", applog.FieldID, id)
		return tx, nil
	}

	s.events.publish(ctx, ports.EntityTransaction, ports.ActionUpdated, tx.ID)
	return tx, nil
}

// Delete removes transaction id. An unknown id is a no-op.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	deleted, err := s.transactions.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !deleted {
		slog.InfoContext(ctx, "Transaction not found, nothing to delete", applog.FieldID, id)
		return nil
	}

	s.events.publish(ctx, ports.EntityTransaction, ports.ActionDeleted, id)
	return nil
}

func (s *TransactionService) build(id string, in TransactionInput) core.Transaction {
	var categoryID *string
	if in.CategoryID != nil && strings.TrimSpace(*in.CategoryID) != "" {
		v := strings.TrimSpace(*in.CategoryID)
		categoryID = &v
	}
	return core.Transaction{
		ID:          id,
		Amount:      in.Amount,
		Type:        in.Type,
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  categoryID,
	}
}

func (s *TransactionService) validate(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(core.DateOf(s.now())); err != nil {
		return err
	}
	if tx.CategoryID == nil {
		return nil
	}
	if _, err := s.categories.GetCategory(ctx, *tx.CategoryID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NewValidationError("categoryId", "category does not exist", core.ErrUnknownCategory)
		}
		return fmt.Errorf("check category: %w", err)
	}
	return nil
}
