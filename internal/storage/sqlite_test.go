package storage

import (
	"context"
	"path/filepath"
	"testing"

	"budget/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCategory(t *testing.T, repo *SQLiteRepository, name string) core.Category {
	t.Helper()
	c := core.Category{ID: uuid.NewString(), Name: name}
	require.NoError(t, repo.CreateCategory(context.Background(), c))
	return c
}

func mustTransaction(t *testing.T, repo *SQLiteRepository, amount string, typ core.TransactionType, date core.Date, categoryID *string) core.Transaction {
	t.Helper()
	tx := core.Transaction{
		ID:         uuid.NewString(),
		Amount:     decimal.RequireFromString(amount),
		Type:       typ,
		Date:       date,
		CategoryID: categoryID,
	}
	require.NoError(t, repo.CreateTransaction(context.Background(), tx))
	return tx
}

func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(core.Filter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	f := core.Filter{}.
		WithDateRange(core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31)).
		WithType(core.Expense).
		WithCategory("c1")
	where, args = buildWhere(f)
	assert.Equal(t, " WHERE t.date >= ? AND t.date <= ? AND t.type = ? AND t.category_id = ?", where)
	assert.Equal(t, []any{"2024-01-01", "2024-01-31", "EXPENSE", "c1"}, args)
}

func TestMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))

	version, dirty, err := MigrationVersion(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestListTransactionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	food := mustCategory(t, repo, "Food")

	withCat := mustTransaction(t, repo, "100.25", core.Expense, core.NewDate(2024, 1, 15), &food.ID)
	without := mustTransaction(t, repo, "5000", core.Income, core.NewDate(2024, 1, 25), nil)

	views, err := repo.ListTransactions(ctx, core.Filter{})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, without.ID, views[0].ID)
	assert.Nil(t, views[0].Category)
	assert.Equal(t, core.NoCategoryLabel, views[0].CategoryName())

	assert.Equal(t, withCat.ID, views[1].ID)
	require.NotNil(t, views[1].Category)
	assert.Equal(t, "Food", views[1].CategoryName())
	assert.True(t, views[1].Amount.Equal(decimal.RequireFromString("100.25")))
	assert.Equal(t, core.NewDate(2024, 1, 15), views[1].Date)
}

func TestListTransactionsOrdering(t *testing.T) {
	repo := newTestRepo(t)
	day := core.NewDate(2024, 3, 1)
	first := mustTransaction(t, repo, "1", core.Expense, day, nil)
	second := mustTransaction(t, repo, "2", core.Expense, day, nil)
	older := mustTransaction(t, repo, "3", core.Expense, core.NewDate(2024, 2, 1), nil)
	newer := mustTransaction(t, repo, "4", core.Income, core.NewDate(2024, 4, 1), nil)

	views, err := repo.ListTransactions(context.Background(), core.Filter{})
	require.NoError(t, err)

	var ids []string
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{newer.ID, second.ID, first.ID, older.ID}, ids)
}

func TestListTransactionsFilters(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	food := mustCategory(t, repo, "Food")
	mustTransaction(t, repo, "100", core.Expense, core.NewDate(2024, 1, 15), &food.ID)
	mustTransaction(t, repo, "50", core.Expense, core.NewDate(2024, 1, 20), nil)
	mustTransaction(t, repo, "5000", core.Income, core.NewDate(2024, 2, 1), nil)

	tests := []struct {
		name   string
		filter core.Filter
		want   int
	}{
		{"no filter", core.Filter{}, 3},
		{"january", core.Filter{}.WithDateRange(core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31)), 2},
		{"inclusive bounds", core.Filter{}.WithDateRange(core.NewDate(2024, 1, 15), core.NewDate(2024, 1, 20)), 2},
		{"inverted range", core.Filter{}.WithDateRange(core.NewDate(2024, 2, 1), core.NewDate(2024, 1, 1)), 0},
		{"expenses", core.Filter{}.WithType(core.Expense), 2},
		{"food", core.Filter{}.WithCategory(food.ID), 1},
		{"income in food", core.Filter{}.WithType(core.Income).WithCategory(food.ID), 0},
		{"unknown category", core.Filter{}.WithCategory("missing"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := repo.ListTransactions(ctx, tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, views)
			assert.Len(t, views, tt.want)
			for _, v := range views {
				assert.True(t, tt.filter.Matches(v.Transaction))
			}
		})
	}
}

func TestDeleteCategoryClearsReferences(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	food := mustCategory(t, repo, "Food")
	a := mustTransaction(t, repo, "10", core.Expense, core.NewDate(2024, 1, 1), &food.ID)
	b := mustTransaction(t, repo, "20", core.Expense, core.NewDate(2024, 1, 2), &food.ID)

	deleted, err := repo.DeleteCategory(ctx, food.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	views, err := repo.ListTransactions(ctx, core.Filter{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.Contains(t, []string{a.ID, b.ID}, v.ID)
		assert.Nil(t, v.CategoryID)
		assert.Equal(t, core.NoCategoryLabel, v.CategoryName())
	}

	_, err = repo.GetCategory(ctx, food.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCategoryConstraints(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	food := mustCategory(t, repo, "Food")
	rent := mustCategory(t, repo, "Rent")

	err := repo.CreateCategory(ctx, core.Category{ID: uuid.NewString(), Name: "Food"})
	assert.ErrorIs(t, err, core.ErrDuplicateCategory)

	_, err = repo.UpdateCategory(ctx, core.Category{ID: rent.ID, Name: "Food"})
	assert.ErrorIs(t, err, core.ErrDuplicateCategory)

	updated, err := repo.UpdateCategory(ctx, core.Category{ID: food.ID, Name: "Groceries"})
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = repo.UpdateCategory(ctx, core.Category{ID: "missing", Name: "X"})
	require.NoError(t, err)
	assert.False(t, updated)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Groceries", categories[0].Name)
	assert.Equal(t, "Rent", categories[1].Name)
}

func TestTransactionWrites(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	missing := "missing"
	err := repo.CreateTransaction(ctx, core.Transaction{
		ID: uuid.NewString(), Amount: decimal.NewFromInt(1), Type: core.Expense,
		Date: core.NewDate(2024, 1, 1), CategoryID: &missing,
	})
	assert.ErrorIs(t, err, core.ErrUnknownCategory)

	tx := mustTransaction(t, repo, "10", core.Expense, core.NewDate(2024, 1, 1), nil)
	tx.Amount = decimal.RequireFromString("12.50")
	tx.Description = "lunch"
	updated, err := repo.UpdateTransaction(ctx, tx)
	require.NoError(t, err)
	assert.True(t, updated)

	views, err := repo.ListTransactions(ctx, core.Filter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "lunch", views[0].Description)
	assert.True(t, views[0].Amount.Equal(tx.Amount))

	deleted, err := repo.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	s, err := repo.GetSettings(ctx, core.PLN)
	require.NoError(t, err)
	assert.Equal(t, core.SettingsKey, s.ID)
	assert.Equal(t, core.PLN, s.Currency)

	// the default only applies on creation
	s, err = repo.GetSettings(ctx, core.USD)
	require.NoError(t, err)
	assert.Equal(t, core.PLN, s.Currency)

	s, err = repo.SetCurrency(ctx, core.EUR)
	require.NoError(t, err)
	assert.Equal(t, core.EUR, s.Currency)

	var rows int
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
