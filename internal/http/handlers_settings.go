package http

import (
	"net/http"
	"strings"

	"budget/internal/core"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.Settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newSettingsView(settings)).Write(w)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	currency := core.Currency(strings.ToUpper(strings.TrimSpace(req.Currency)))
	settings, err := s.svc.Settings.UpdateCurrency(r.Context(), currency)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newSettingsView(settings)).Write(w)
}
