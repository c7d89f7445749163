package export

import (
	"fmt"
	"io"

	"budget/internal/core"

	"github.com/xuri/excelize/v2"
)

const (
	TransactionsSheet = "Transactions"
	SummarySheet      = "Summary"

	// built-in number format "0.00"
	numFmtTwoDecimals = 2
)

// WriteTransactionsXLSX writes a workbook with the listed transactions and
// their summary to w.
func WriteTransactionsXLSX(w io.Writer, views []core.TransactionView, summary core.Summary, currency core.Currency) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TransactionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	if err := writeTransactions(f, views, header, amount); err != nil {
		return err
	}
	if err := writeSummary(f, summary, currency, header, amount); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTransactions(f *excelize.File, views []core.TransactionView, header, amount int) error {
	if err := f.SetSheetRow(TransactionsSheet, "A1", &[]any{"Date", "Type", "Amount", "Category", "Description"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(TransactionsSheet, "A1", "E1", header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, v := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{v.Date.String(), string(v.Type), v.Amount.InexactFloat64(), v.CategoryName(), v.Description}
		if err := f.SetSheetRow(TransactionsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if len(views) > 0 {
		last := fmt.Sprintf("C%d", len(views)+1)
		if err := f.SetCellStyle(TransactionsSheet, "C2", last, amount); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}
	if err := f.SetColWidth(TransactionsSheet, "D", "E", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s core.Summary, currency core.Currency, header, amount int) error {
	rows := [][]any{
		{"Metric", "Amount", "Display"},
		{"Total income", s.TotalIncome.InexactFloat64(), core.FormatAmount(s.TotalIncome, currency)},
		{"Total expense", s.TotalExpense.InexactFloat64(), core.FormatAmount(s.TotalExpense, currency)},
		{"Balance", s.Balance.InexactFloat64(), core.FormatAmount(s.Balance, currency)},
		{"Currency", string(currency), ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "C1", header); err != nil {
		return fmt.Errorf("style summary header: %w", err)
	}
	if err := f.SetCellStyle(SummarySheet, "B2", "B4", amount); err != nil {
		return fmt.Errorf("style summary amounts: %w", err)
	}
	return nil
}
