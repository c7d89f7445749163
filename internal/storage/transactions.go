package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"budget/internal/core"

	"github.com/shopspring/decimal"
)

const listTransactionsQuery = `
SELECT t.id, t.amount, t.type, t.date, t.description, t.category_id,
       t.created_at, t.updated_at, c.id, c.name
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id`

// buildWhere turns a filter into a conjunctive WHERE clause. An empty filter
// yields an empty clause.
func buildWhere(f core.Filter) (string, []any) {
	if f.IsEmpty() {
		return "", nil
	}

	var (
		conds []string
		args  []any
	)
	if f.DateFrom != nil {
		conds = append(conds, "t.date >= ?")
		args = append(args, f.DateFrom.String())
	}
	if f.DateTo != nil {
		conds = append(conds, "t.date <= ?")
		args = append(args, f.DateTo.String())
	}
	if f.Type != nil {
		conds = append(conds, "t.type = ?")
		args = append(args, string(*f.Type))
	}
	if f.CategoryID != nil {
		conds = append(conds, "t.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListTransactions implements ports.TransactionQuerier.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f core.Filter) ([]core.TransactionView, error) {
	where, args := buildWhere(f)
	query := listTransactionsQuery + where + " ORDER BY t.date DESC, t.rowid DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	views := []core.TransactionView{}
	for rows.Next() {
		v, err := scanTransactionView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	slog.DebugContext(ctx, "Transactions listed", "filter", f.Key(), "count", len(views))
	return views, nil
}

func scanTransactionView(rows *sql.Rows) (core.TransactionView, error) {
	var (
		v                              core.TransactionView
		amount, typ, date              string
		createdAt, updatedAt           string
		categoryID, joinedID, joinedNm sql.NullString
	)
	if err := rows.Scan(&v.ID, &amount, &typ, &date, &v.Description, &categoryID,
		&createdAt, &updatedAt, &joinedID, &joinedNm); err != nil {
		return v, fmt.Errorf("scan transaction: %w", err)
	}

	var err error
	if v.Amount, err = decimal.NewFromString(amount); err != nil {
		return v, fmt.Errorf("parse amount of transaction %s: %w", v.ID, err)
	}
	v.Type = core.TransactionType(typ)
	if v.Date, err = core.ParseDate(date); err != nil {
		return v, fmt.Errorf("parse date of transaction %s: %w", v.ID, err)
	}
	if v.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return v, err
	}
	if v.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return v, err
	}
	if categoryID.Valid {
		id := categoryID.String
		v.CategoryID = &id
	}
	if joinedID.Valid {
		v.Category = &core.CategoryRef{ID: joinedID.String, Name: joinedNm.String}
	}
	return v, nil
}

// CreateTransaction implements ports.TransactionWriter.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	now := r.timestamp()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (id, amount, type, date, description, category_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Amount.String(), string(tx.Type), tx.Date.String(), tx.Description,
		nullable(tx.CategoryID), now, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create transaction: %w", core.ErrUnknownCategory)
		}
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"date", tx.Date.String())
	return nil
}

// UpdateTransaction implements ports.TransactionWriter.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE transactions
SET amount = ?, type = ?, date = ?, description = ?, category_id = ?, updated_at = ?
WHERE id = ?`,
		tx.Amount.String(), string(tx.Type), tx.Date.String(), tx.Description,
		nullable(tx.CategoryID), r.timestamp(), tx.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("update transaction: %w", core.ErrUnknownCategory)
		}
		return false, fmt.Errorf("update transaction: %w", err)
	}
	return rowsAffected(res)
}

// DeleteTransaction implements ports.TransactionWriter.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	return rowsAffected(res)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
