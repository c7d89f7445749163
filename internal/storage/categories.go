package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"budget/internal/core"
)

// ListCategories returns every category ordered by name.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns core.ErrNotFound for an unknown id.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("get category %s: %w", id, core.ErrNotFound)
	}
	return c, err
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	now := r.timestamp()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create category %q: %w", c.Name, core.ErrDuplicateCategory)
		}
		return fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category saved to SQLite", "id", c.ID, "name", c.Name)
	return nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, updated_at = ? WHERE id = ?`,
		c.Name, r.timestamp(), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("update category %q: %w", c.Name, core.ErrDuplicateCategory)
		}
		return false, fmt.Errorf("update category: %w", err)
	}
	return rowsAffected(res)
}

// DeleteCategory removes the category; the foreign key clears category_id on
// the transactions that referenced it.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return rowsAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (core.Category, error) {
	var (
		c                    core.Category
		createdAt, updatedAt string
	)
	if err := s.Scan(&c.ID, &c.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan category: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return c, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return c, err
	}
	return c, nil
}
