package storage

import (
	"context"
	"fmt"

	"budget/internal/core"
)

// GetSettings reads the singleton row, inserting it with def first if it
// does not exist yet. Concurrent first calls converge on one row.
func (r *SQLiteRepository) GetSettings(ctx context.Context, def core.Currency) (core.Settings, error) {
	now := r.timestamp()
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO settings (id, currency, created_at, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`, core.SettingsKey, string(def), now, now); err != nil {
		return core.Settings{}, fmt.Errorf("ensure settings: %w", err)
	}
	return r.readSettings(ctx)
}

// SetCurrency upserts the singleton row with c.
func (r *SQLiteRepository) SetCurrency(ctx context.Context, c core.Currency) (core.Settings, error) {
	now := r.timestamp()
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO settings (id, currency, created_at, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET currency = excluded.currency, updated_at = excluded.updated_at`,
		core.SettingsKey, string(c), now, now); err != nil {
		return core.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	return r.readSettings(ctx)
}

func (r *SQLiteRepository) readSettings(ctx context.Context) (core.Settings, error) {
	var s core.Settings
	var currency string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, currency FROM settings WHERE id = ?`, core.SettingsKey).Scan(&s.ID, &currency)
	if err != nil {
		return core.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	s.Currency = core.Currency(currency)
	return s, nil
}
