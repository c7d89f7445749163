package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"budget/internal/core"
	"budget/internal/services"
	"budget/internal/storage/memory"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)
}

type failingQuerier struct{}

func (failingQuerier) ListTransactions(context.Context, core.Filter) ([]core.TransactionView, error) {
	return nil, errors.New("disk I/O error")
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	store := memory.New()
	if opts.Clock == nil {
		opts.Clock = fixedNow
	}
	srv := NewServer(Services{
		Transactions: services.NewTransactionService(store, store, nil, opts.Clock),
		Categories:   services.NewCategoryService(store, nil, opts.Clock),
		Settings:     services.NewSettingsService(store, core.PLN, nil, opts.Clock),
		Dashboard:    services.NewDashboardService(store),
	}, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	}

	down := newTestServer(t, Options{Ready: func(context.Context) error { return errors.New("closed") }})
	rec := do(t, down, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "closed")
}

func TestDashboardScenario(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := do(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Jedzenie"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	food := decode[categoryView](t, rec)

	for _, tx := range []map[string]any{
		{"amount": "5000", "type": "INCOME", "date": "2024-01-10"},
		{"amount": 200, "type": "EXPENSE", "date": "2024-01-12", "categoryId": food.ID},
		{"amount": "50,00", "type": "EXPENSE", "date": "2024-02-03"},
	} {
		rec := do(t, srv, http.MethodPost, "/api/transactions", tx)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"summary": {"totalIncome": "5000.00", "totalExpense": "250.00", "balance": "4750.00"},
		"expensesByCategory": [
			{"categoryId": null, "categoryName": "uncategorized", "total": "50.00"},
			{"categoryId": "`+food.ID+`", "categoryName": "Jedzenie", "total": "200.00"}
		],
		"monthlyData": [
			{"month": "2024-01", "income": "5000.00", "expense": "200.00"},
			{"month": "2024-02", "income": "0.00", "expense": "50.00"}
		]
	}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/summary?dateFrom=2024-01-01&dateTo=2024-01-31&type=EXPENSE", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalIncome":"0.00","totalExpense":"200.00","balance":"-200.00"}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/expenses-by-category?categoryId="+food.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]categoryExpenseView](t, rec)["expensesByCategory"], 1)

	rec = do(t, srv, http.MethodGet, "/api/monthly?dateFrom=2024-03-01&dateTo=2024-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"monthlyData":[]}`, rec.Body.String())
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := do(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Transport"})
	require.Equal(t, http.StatusCreated, rec.Code)
	cat := decode[categoryView](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"amount": "12.5", "type": "EXPENSE", "date": "2024-06-15", "description": "bus", "categoryId": cat.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[transactionView](t, rec)
	assert.Equal(t, "12.50", created.Amount)
	assert.Equal(t, "Transport", created.CategoryName)
	assert.Equal(t, "/api/transactions/"+created.ID, rec.Header().Get("Location"))

	rec = do(t, srv, http.MethodPut, "/api/transactions/"+created.ID, map[string]any{
		"amount": "15", "type": "EXPENSE", "date": "2024-06-14",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "none", decode[transactionView](t, rec).CategoryName)

	rec = do(t, srv, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Transactions []transactionView `json:"transactions"`
		Count        int               `json:"count"`
	}](t, rec)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "15.00", list.Transactions[0].Amount)
	assert.Nil(t, list.Transactions[0].CategoryID)

	rec = do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "unknown id is a no-op")

	rec = do(t, srv, http.MethodGet, "/api/transactions", nil)
	assert.Equal(t, float64(0), decode[map[string]any](t, rec)["count"])
}

func TestTransactionValidation(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name   string
		body   any
		status int
		field  string
	}{
		{"future date", map[string]any{"amount": "1", "type": "EXPENSE", "date": "2024-06-16"}, http.StatusUnprocessableEntity, "date"},
		{"zero amount", map[string]any{"amount": "0", "type": "EXPENSE", "date": "2024-06-01"}, http.StatusUnprocessableEntity, "amount"},
		{"bad type", map[string]any{"amount": "1", "type": "LOAN", "date": "2024-06-01"}, http.StatusUnprocessableEntity, "type"},
		{"unknown category", map[string]any{"amount": "1", "type": "EXPENSE", "date": "2024-06-01", "categoryId": "nope"}, http.StatusUnprocessableEntity, "categoryId"},
		{"not an object", []int{1}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/transactions", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.field, decode[errorBody](t, rec).Field)
		})
	}
}

func TestCategoryEndpoints(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := do(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Zdrowie"})
	require.Equal(t, http.StatusCreated, rec.Code)
	health := decode[categoryView](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Zdrowie"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"amount": "80", "type": "EXPENSE", "date": "2024-06-02", "categoryId": health.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodPut, "/api/categories/"+health.ID, map[string]string{"name": "Apteka"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Apteka", decode[categoryView](t, rec).Name)

	rec = do(t, srv, http.MethodDelete, "/api/categories/"+health.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/categories", nil)
	assert.JSONEq(t, `{"categories":[]}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/transactions", nil)
	assert.Contains(t, rec.Body.String(), `"categoryName":"none"`, "transaction survives its category")
}

func TestSettingsEndpoints(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := do(t, srv, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"currency":"PLN","symbol":"zł"}`, rec.Body.String())

	rec = do(t, srv, http.MethodPut, "/api/settings", map[string]string{"currency": "eur"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"currency":"EUR","symbol":"€"}`, rec.Body.String())

	rec = do(t, srv, http.MethodPut, "/api/settings", map[string]string{"currency": "GBP"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFilterParamErrors(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, path := range []string{
		"/api/summary?dateFrom=yesterday",
		"/api/dashboard?type=BOTH",
		"/api/transactions?period=someday",
	} {
		rec := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestStorageFailureIsGeneric(t *testing.T) {
	store := memory.New()
	srv := NewServer(Services{
		Transactions: services.NewTransactionService(store, store, nil, fixedNow),
		Categories:   services.NewCategoryService(store, nil, fixedNow),
		Settings:     services.NewSettingsService(store, core.PLN, nil, fixedNow),
		Dashboard:    services.NewDashboardService(failingQuerier{}),
	}, Options{Clock: fixedNow})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	rec := do(t, srv, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"an error occurred"}`, rec.Body.String())
}

func TestExportXLSX(t *testing.T) {
	srv := newTestServer(t, Options{})
	rec := do(t, srv, http.MethodPost, "/api/transactions", map[string]any{"amount": "99.90", "type": "EXPENSE", "date": "2024-06-10"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/transactions/export.xlsx?period=current-month", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "transactions-2024-06-15.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Transactions")
}

func TestWritesAreRateLimited(t *testing.T) {
	srv := newTestServer(t, Options{RateLimitPerMinute: 1})

	rec := do(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Inne"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Premia"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = do(t, srv, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "reads are not limited")
}

func TestHealthReportsCounters(t *testing.T) {
	srv := newTestServer(t, Options{RateLimitPerMinute: 1})

	do(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Inne"})
	do(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Premia"})

	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[healthResponse](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, int64(3), health.Requests.Total)
	assert.Zero(t, health.Requests.ServerErrors)
	assert.Equal(t, int64(1), health.RateLimit.Rejected)
	assert.Equal(t, 1, health.RateLimit.Clients)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", clientIP(r))
}
