package http

import (
	"time"

	"budget/internal/core"
	"budget/internal/services"
)

// JSON shapes of the API. Amounts are decimal strings so no precision is lost.

type transactionView struct {
	ID           string  `json:"id"`
	Amount       string  `json:"amount"`
	Type         string  `json:"type"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	CategoryID   *string `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

type categoryView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type settingsView struct {
	Currency string `json:"currency"`
	Symbol   string `json:"symbol"`
}

type summaryView struct {
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	Balance      string `json:"balance"`
}

type categoryExpenseView struct {
	CategoryID   *string `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Total        string  `json:"total"`
}

type monthlyView struct {
	Month   string `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type dashboardView struct {
	Summary            summaryView           `json:"summary"`
	ExpensesByCategory []categoryExpenseView `json:"expensesByCategory"`
	MonthlyData        []monthlyView         `json:"monthlyData"`
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func newTransactionView(v core.TransactionView) transactionView {
	out := transactionView{
		ID:           v.ID,
		Amount:       v.Amount.StringFixed(2),
		Type:         string(v.Type),
		Date:         v.Date.String(),
		Description:  v.Description,
		CategoryName: v.CategoryName(),
		CreatedAt:    stamp(v.CreatedAt),
		UpdatedAt:    stamp(v.UpdatedAt),
	}
	if v.Category != nil {
		id := v.Category.ID
		out.CategoryID = &id
	}
	return out
}

func newTransactionViews(views []core.TransactionView) []transactionView {
	out := make([]transactionView, 0, len(views))
	for _, v := range views {
		out = append(out, newTransactionView(v))
	}
	return out
}

// newWrittenTransactionView renders a transaction just written, whose
// category name the caller resolved.
func newWrittenTransactionView(tx core.Transaction, category *core.CategoryRef) transactionView {
	return newTransactionView(core.TransactionView{Transaction: tx, Category: category})
}

func newCategoryView(c core.Category) categoryView {
	return categoryView{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: stamp(c.CreatedAt),
		UpdatedAt: stamp(c.UpdatedAt),
	}
}

func newSettingsView(s core.Settings) settingsView {
	return settingsView{Currency: string(s.Currency), Symbol: s.Currency.Symbol()}
}

func newSummaryView(s core.Summary) summaryView {
	return summaryView{
		TotalIncome:  s.TotalIncome.StringFixed(2),
		TotalExpense: s.TotalExpense.StringFixed(2),
		Balance:      s.Balance.StringFixed(2),
	}
}

func newCategoryExpenseViews(buckets []core.CategoryExpense) []categoryExpenseView {
	out := make([]categoryExpenseView, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, categoryExpenseView{
			CategoryID:   b.CategoryID(),
			CategoryName: b.DisplayName(),
			Total:        b.Total.StringFixed(2),
		})
	}
	return out
}

func newMonthlyViews(months []core.MonthlyTotals) []monthlyView {
	out := make([]monthlyView, 0, len(months))
	for _, m := range months {
		out = append(out, monthlyView{
			Month:   m.Month,
			Income:  m.Income.StringFixed(2),
			Expense: m.Expense.StringFixed(2),
		})
	}
	return out
}

func newDashboardView(d services.Dashboard) dashboardView {
	return dashboardView{
		Summary:            newSummaryView(d.Summary),
		ExpensesByCategory: newCategoryExpenseViews(d.ExpensesByCategory),
		MonthlyData:        newMonthlyViews(d.Monthly),
	}
}
