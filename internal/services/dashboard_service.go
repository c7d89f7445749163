package services

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/ports"

	"golang.org/x/sync/errgroup"
)

// Dashboard bundles the three aggregations computed over one filtered list.
type Dashboard struct {
	Summary            core.Summary
	ExpensesByCategory []core.CategoryExpense
	Monthly            []core.MonthlyTotals
}

// DashboardService runs the transaction query and aggregates its result.
// It keeps no state between calls.
type DashboardService struct {
	query ports.TransactionQuerier
}

func NewDashboardService(query ports.TransactionQuerier) *DashboardService {
	return &DashboardService{query: query}
}

func (s *DashboardService) ListTransactions(ctx context.Context, f core.Filter) ([]core.TransactionView, error) {
	views, err := s.query.ListTransactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return views, nil
}

func (s *DashboardService) GetSummary(ctx context.Context, f core.Filter) (core.Summary, error) {
	views, err := s.ListTransactions(ctx, f)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(views), nil
}

func (s *DashboardService) GetExpensesByCategory(ctx context.Context, f core.Filter) ([]core.CategoryExpense, error) {
	views, err := s.ListTransactions(ctx, f)
	if err != nil {
		return nil, err
	}
	return core.ExpensesByCategory(views), nil
}

func (s *DashboardService) GetMonthlyComparison(ctx context.Context, f core.Filter) ([]core.MonthlyTotals, error) {
	views, err := s.ListTransactions(ctx, f)
	if err != nil {
		return nil, err
	}
	return core.MonthlyComparison(views), nil
}

// GetDashboard queries once and computes the three aggregations concurrently
// over that snapshot.
func (s *DashboardService) GetDashboard(ctx context.Context, f core.Filter) (Dashboard, error) {
	views, err := s.ListTransactions(ctx, f)
	if err != nil {
		return Dashboard{}, err
	}

	var (
		d Dashboard
		g errgroup.Group
	)
	g.Go(func() error {
		d.Summary = core.Summarize(views)
		return nil
	})
	g.Go(func() error {
		d.ExpensesByCategory = core.ExpensesByCategory(views)
		return nil
	})
	g.Go(func() error {
		d.Monthly = core.MonthlyComparison(views)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("aggregate dashboard: %w", err)
	}

	slog.DebugContext(ctx, "Dashboard computed",
		applog.FieldFilter, f.Key(),
		applog.FieldCount, len(views))
	return d, nil
}
