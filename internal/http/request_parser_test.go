package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
)

var testToday = core.NewDate(2024, 6, 15)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty", "", "all"},
		{"ALL means none", "type=ALL&categoryId=ALL", "all"},
		{"dates", "dateFrom=2024-01-01&dateTo=2024-01-31", "from=2024-01-01&to=2024-01-31"},
		{"type lower case", "type=expense", "type=EXPENSE"},
		{"category", "categoryId=c1", "category=c1"},
		{"period replaces dates", "period=previous-month&dateFrom=2020-01-01", "from=2024-05-01&to=2024-05-31"},
		{"custom keeps dates", "period=custom&dateFrom=2024-02-01", "from=2024-02-01"},
		{"rolling", "period=last-3-months&type=INCOME", "from=2024-04-01&to=2024-06-15&type=INCOME"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			f, err := ParseFilter(q, testToday)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Key())
		})
	}
}

func TestParseFilter_Invalid(t *testing.T) {
	for query, param := range map[string]string{
		"dateFrom=01/02/2024": "dateFrom",
		"dateTo=2024-13-01":   "dateTo",
		"type=TRANSFER":       "type",
		"period=forever":      "period",
	} {
		q, _ := url.ParseQuery(query)
		_, err := ParseFilter(q, testToday)
		var pe *ParamError
		require.ErrorAs(t, err, &pe, query)
		assert.Equal(t, param, pe.Param)
	}
}

func TestDecodeJSON(t *testing.T) {
	decode := func(body string) (transactionRequest, error) {
		var req transactionRequest
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := decodeJSON(httptest.NewRecorder(), r, &req)
		return req, err
	}

	req, err := decode(`{"amount": 12.5, "type": "EXPENSE", "date": "2024-06-01"}`)
	require.NoError(t, err)
	assert.Equal(t, flexString("12.5"), req.Amount)

	req, err = decode(`{"amount": "12,50"}`)
	require.NoError(t, err)
	assert.Equal(t, flexString("12,50"), req.Amount)

	_, err = decode(``)
	assert.Error(t, err)
	_, err = decode(`{"amount": true}`)
	assert.Error(t, err)
	_, err = decode(`{} {}`)
	assert.Error(t, err)
}

func TestTransactionRequestInput(t *testing.T) {
	cat := "  c1 "
	in, err := transactionRequest{
		Amount:      "10,005",
		Type:        "income",
		Date:        "2024-06-01",
		Description: " pay\x00day ",
		CategoryID:  &cat,
	}.input()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10.01").Equal(in.Amount))
	assert.Equal(t, core.Income, in.Type)
	assert.Equal(t, "payday", in.Description)
	require.NotNil(t, in.CategoryID)
	assert.Equal(t, "c1", *in.CategoryID)

	empty := ""
	in, err = transactionRequest{Amount: "1", Type: "EXPENSE", Date: "2024-06-01", CategoryID: &empty}.input()
	require.NoError(t, err)
	assert.Nil(t, in.CategoryID)

	tests := []struct {
		req   transactionRequest
		field string
	}{
		{transactionRequest{Amount: "0", Type: "EXPENSE", Date: "2024-06-01"}, "amount"},
		{transactionRequest{Amount: "-5", Type: "EXPENSE", Date: "2024-06-01"}, "amount"},
		{transactionRequest{Amount: "5", Type: "GIFT", Date: "2024-06-01"}, "type"},
		{transactionRequest{Amount: "5", Type: "EXPENSE"}, "date"},
		{transactionRequest{Amount: "5", Type: "EXPENSE", Date: "June"}, "date"},
	}
	for _, tt := range tests {
		_, err := tt.req.input()
		var ve *core.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, tt.field, ve.Field)
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "a\tb", sanitizeInput("  a\tb\x07 "))
	assert.Equal(t, "", sanitizeInput("\x01"))
}
