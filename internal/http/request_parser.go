// Package http exposes the budget services as a JSON API.
//
// This file turns query strings and request bodies into core values.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"budget/internal/core"
	"budget/internal/services"
)

const (
	maxBodyBytes = 1 << 20

	// allValue in a filter parameter means no constraint.
	allValue = "ALL"
)

// ParamError reports a malformed query parameter.
type ParamError struct {
	Param string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Param, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// ParseFilter reads dateFrom, dateTo, type, categoryId and period. A period
// other than custom replaces the explicit dates. Empty values and ALL impose
// no constraint.
func ParseFilter(query url.Values, today core.Date) (core.Filter, error) {
	var f core.Filter

	for _, p := range []struct {
		name string
		dst  **core.Date
	}{
		{"dateFrom", &f.DateFrom},
		{"dateTo", &f.DateTo},
	} {
		v := strings.TrimSpace(query.Get(p.name))
		if v == "" {
			continue
		}
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Filter{}, &ParamError{Param: p.name, Err: err}
		}
		*p.dst = &d
	}

	if v := strings.TrimSpace(query.Get("type")); v != "" && !strings.EqualFold(v, allValue) {
		t, err := core.ParseTransactionType(v)
		if err != nil {
			return core.Filter{}, &ParamError{Param: "type", Err: err}
		}
		f = f.WithType(t)
	}

	if v := strings.TrimSpace(query.Get("categoryId")); v != "" && !strings.EqualFold(v, allValue) {
		f = f.WithCategory(v)
	}

	if v := strings.TrimSpace(query.Get("period")); v != "" {
		preset, err := core.ParsePeriodPreset(v)
		if err != nil {
			return core.Filter{}, &ParamError{Param: "period", Err: err}
		}
		f = preset.Apply(f, today)
	}

	return f, nil
}

// decodeJSON reads one JSON object from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON object")
	}
	return nil
}

// flexString accepts a JSON string or number, so amounts may be sent either way.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type transactionRequest struct {
	Amount      flexString `json:"amount"`
	Type        string     `json:"type"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	CategoryID  *string    `json:"categoryId"`
}

// input converts the request into service input, reporting the first bad field.
func (req transactionRequest) input() (services.TransactionInput, error) {
	amount, err := core.ParseAmount(string(req.Amount))
	if err != nil {
		return services.TransactionInput{}, core.NewValidationError("amount", "amount must be a positive number", err)
	}

	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		return services.TransactionInput{}, core.NewValidationError("type", "type must be INCOME or EXPENSE", core.ErrInvalidType)
	}

	if strings.TrimSpace(req.Date) == "" {
		return services.TransactionInput{}, core.NewValidationError("date", "date is required", core.ErrInvalidDate)
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return services.TransactionInput{}, core.NewValidationError("date", "date must be in YYYY-MM-DD format", core.ErrInvalidDate)
	}

	var categoryID *string
	if req.CategoryID != nil {
		if v := strings.TrimSpace(*req.CategoryID); v != "" {
			categoryID = &v
		}
	}

	return services.TransactionInput{
		Amount:      amount,
		Type:        typ,
		Date:        date,
		Description: sanitizeInput(req.Description),
		CategoryID:  categoryID,
	}, nil
}

type categoryRequest struct {
	Name string `json:"name"`
}

type settingsRequest struct {
	Currency string `json:"currency"`
}

// sanitizeInput drops control characters other than tab and newlines, then trims.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
