package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"budget/internal/core"
	"budget/internal/export"
	applog "budget/internal/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}

	views, err := s.svc.Dashboard.ListTransactions(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(map[string]any{
		"transactions": newTransactionViews(views),
		"count":        len(views),
	}).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.svc.Transactions.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogTransactionWritten(r.Context(), applog.OpCreate, tx.ID, tx.Amount.String(), string(tx.Type), tx.Date.String())

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		Body(newWrittenTransactionView(tx, s.categoryRef(r.Context(), tx.CategoryID))).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.svc.Transactions.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().
		Body(newWrittenTransactionView(tx, s.categoryRef(r.Context(), tx.CategoryID))).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handleExportTransactions streams the filtered list as an XLSX workbook.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}

	views, err := s.svc.Dashboard.ListTransactions(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	settings, err := s.svc.Settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTransactionsXLSX(&buf, views, core.Summarize(views), settings.Currency); err != nil {
		writeError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transactions exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldFilter, f.Key(),
		applog.FieldCount, len(views))

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions-%s.xlsx"`, s.today()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// categoryRef resolves the category of a transaction just written. A lookup
// failure leaves the name empty; the write itself already succeeded.
func (s *Server) categoryRef(ctx context.Context, id *string) *core.CategoryRef {
	if id == nil {
		return nil
	}
	c, err := s.svc.Categories.Get(ctx, *id)
	if err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Failed to resolve category name",
			applog.FieldCategoryID, *id,
			applog.FieldError, err)
		return &core.CategoryRef{ID: *id}
	}
	return &core.CategoryRef{ID: c.ID, Name: c.Name}
}
