package export

import (
	"bytes"
	"testing"

	"budget/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteTransactionsXLSX(t *testing.T) {
	views := []core.TransactionView{
		{
			Transaction: core.Transaction{
				Amount: decimal.NewFromInt(5000), Type: core.Income, Date: core.NewDate(2024, 1, 25),
			},
		},
		{
			Transaction: core.Transaction{
				Amount: decimal.RequireFromString("100.5"), Type: core.Expense,
				Date: core.NewDate(2024, 1, 15), Description: "groceries",
			},
			Category: &core.CategoryRef{ID: "c1", Name: "Food"},
		},
	}
	summary := core.Summarize(views)

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsXLSX(&buf, views, summary, core.PLN))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TransactionsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(TransactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Type", "Amount", "Category", "Description"}, rows[0])
	assert.Equal(t, "2024-01-25", rows[1][0])
	assert.Equal(t, core.NoCategoryLabel, rows[1][3])
	assert.Equal(t, "Food", rows[2][3])
	assert.Equal(t, "groceries", rows[2][4])

	raw, err := f.GetCellValue(TransactionsSheet, "C3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "100.5", raw)

	summaryRows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summaryRows, 5)
	assert.Equal(t, "4899,50 zł", summaryRows[3][2])
	assert.Equal(t, "PLN", summaryRows[4][1])
}

func TestWriteTransactionsXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsXLSX(&buf, nil, core.Summarize(nil), core.EUR))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(TransactionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
