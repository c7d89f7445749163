package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"budget/internal/core"
	applog "budget/internal/log"
	ports "budget/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	monthlySheet      string
}

var _ ports.Mirror = (*Client)(nil)

// Options configures the spreadsheet mirror.
type Options struct {
	SpreadsheetID     string
	TransactionsSheet string
	MonthlySheet      string
	// CredentialsJSON takes precedence over CredentialsFile. With neither
	// set, GOOGLE_APPLICATION_CREDENTIALS is used.
	CredentialsJSON string
	CredentialsFile string
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if opts.TransactionsSheet == "" {
		opts.TransactionsSheet = "Transactions"
	}
	if opts.MonthlySheet == "" {
		opts.MonthlySheet = "Monthly"
	}

	creds, err := loadCredentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created",
		applog.FieldComponent, applog.ComponentSheets,
		"spreadsheet_id", opts.SpreadsheetID)

	return &Client{
		svc:               svc,
		spreadsheetID:     opts.SpreadsheetID,
		transactionsSheet: opts.TransactionsSheet,
		monthlySheet:      opts.MonthlySheet,
	}, nil
}

func loadCredentials(opts Options) ([]byte, error) {
	if js := strings.TrimSpace(opts.CredentialsJSON); js != "" {
		return []byte(js), nil
	}
	path := strings.TrimSpace(opts.CredentialsFile)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// SyncTransactions implements sheets.Mirror.
func (c *Client) SyncTransactions(ctx context.Context, views []core.TransactionView, currency core.Currency) error {
	return c.rewrite(ctx, c.transactionsSheet, TransactionRows(views, currency))
}

// SyncMonthly implements sheets.Mirror.
func (c *Client) SyncMonthly(ctx context.Context, months []core.MonthlyTotals, currency core.Currency) error {
	return c.rewrite(ctx, c.monthlySheet, MonthlyRows(months, currency))
}

// rewrite clears sheet and writes rows starting at A1.
func (c *Client) rewrite(ctx context.Context, sheet string, rows [][]any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, sheet, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", sheet, err)
	}

	rng := fmt.Sprintf("%s!A1", sheet)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", sheet, err)
	}

	slog.InfoContext(ctx, "Sheet rewritten",
		applog.FieldComponent, applog.ComponentSheets,
		"sheet", sheet,
		"rows", len(rows)-1)
	return nil
}
