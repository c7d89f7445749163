package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// UncategorizedLabel names the breakdown bucket of expenses without a category.
	UncategorizedLabel = "uncategorized"

	// NoCategoryLabel is shown for a listed transaction without a category.
	NoCategoryLabel = "none"
)

type (
	Summary struct {
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		Balance      decimal.Decimal
	}

	// CategoryExpense is one bucket of the expense breakdown. Category is nil
	// for the single bucket that collects uncategorized expenses.
	CategoryExpense struct {
		Category *CategoryRef
		Total    decimal.Decimal
	}

	MonthlyTotals struct {
		Month   string // YYYY-MM
		Income  decimal.Decimal
		Expense decimal.Decimal
	}
)

// CategoryID returns the bucket's category id, or nil for the uncategorized bucket.
func (c CategoryExpense) CategoryID() *string {
	if c.Category == nil {
		return nil
	}
	id := c.Category.ID
	return &id
}

// DisplayName is the label shown for the bucket.
func (c CategoryExpense) DisplayName() string {
	if c.Category == nil {
		return UncategorizedLabel
	}
	return c.Category.Name
}

// CategoryName is the label shown for a listed transaction.
func (v TransactionView) CategoryName() string {
	if v.Category == nil {
		return NoCategoryLabel
	}
	return v.Category.Name
}

// Summarize totals income and expense. Amounts are taken as stored.
func Summarize(views []TransactionView) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, v := range views {
		switch v.Type {
		case Income:
			income = income.Add(v.Amount)
		case Expense:
			expense = expense.Add(v.Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// ExpensesByCategory sums EXPENSE amounts per category. Buckets appear in the
// order their first transaction appears in views.
func ExpensesByCategory(views []TransactionView) []CategoryExpense {
	var (
		out           []CategoryExpense
		index         = make(map[string]int)
		uncategorized = -1
	)
	for _, v := range views {
		if v.Type != Expense {
			continue
		}
		if v.Category == nil {
			if uncategorized < 0 {
				uncategorized = len(out)
				out = append(out, CategoryExpense{Total: decimal.Zero})
			}
			out[uncategorized].Total = out[uncategorized].Total.Add(v.Amount)
			continue
		}
		i, ok := index[v.Category.ID]
		if !ok {
			i = len(out)
			index[v.Category.ID] = i
			ref := *v.Category
			out = append(out, CategoryExpense{Category: &ref, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(v.Amount)
	}
	if out == nil {
		return []CategoryExpense{}
	}
	return out
}

// MonthlyComparison sums income and expense per calendar month, ascending by
// month. Months without transactions are omitted.
func MonthlyComparison(views []TransactionView) []MonthlyTotals {
	byMonth := make(map[string]*MonthlyTotals)
	for _, v := range views {
		key := v.Date.MonthKey()
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyTotals{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[key] = m
		}
		switch v.Type {
		case Income:
			m.Income = m.Income.Add(v.Amount)
		case Expense:
			m.Expense = m.Expense.Add(v.Amount)
		}
	}

	out := make([]MonthlyTotals, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
