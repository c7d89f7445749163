package google

import (
	"budget/internal/core"
)

var (
	transactionsHeader = []any{"Date", "Type", "Amount", "Display amount", "Category", "Description"}
	monthlyHeader      = []any{"Month", "Income", "Expense", "Balance", "Display balance"}
)

// TransactionRows renders the transactions sheet, header first.
func TransactionRows(views []core.TransactionView, currency core.Currency) [][]any {
	rows := make([][]any, 0, len(views)+1)
	rows = append(rows, transactionsHeader)
	for _, v := range views {
		rows = append(rows, []any{
			v.Date.String(),
			string(v.Type),
			v.Amount.StringFixed(2),
			core.FormatAmount(v.Amount, currency),
			v.CategoryName(),
			v.Description,
		})
	}
	return rows
}

// MonthlyRows renders the monthly comparison sheet, header first.
func MonthlyRows(months []core.MonthlyTotals, currency core.Currency) [][]any {
	rows := make([][]any, 0, len(months)+1)
	rows = append(rows, monthlyHeader)
	for _, m := range months {
		balance := m.Income.Sub(m.Expense)
		rows = append(rows, []any{
			m.Month,
			m.Income.StringFixed(2),
			m.Expense.StringFixed(2),
			balance.StringFixed(2),
			core.FormatAmount(balance, currency),
		})
	}
	return rows
}
