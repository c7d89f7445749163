package http

import (
	"net/http"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	summary, err := s.svc.Dashboard.GetSummary(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newSummaryView(summary)).Write(w)
}

func (s *Server) handleExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	buckets, err := s.svc.Dashboard.GetExpensesByCategory(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(map[string]any{"expensesByCategory": newCategoryExpenseViews(buckets)}).Write(w)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	months, err := s.svc.Dashboard.GetMonthlyComparison(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(map[string]any{"monthlyData": newMonthlyViews(months)}).Write(w)
}

// handleDashboard returns all three views computed from one query.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	d, err := s.svc.Dashboard.GetDashboard(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newDashboardView(d)).Write(w)
}
