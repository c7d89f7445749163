package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"budget/internal/core"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Uptime    string         `json:"uptime"`
	Requests  requestMetrics `json:"requests"`
	RateLimit limitMetrics   `json:"rateLimit"`
}

type requestMetrics struct {
	Total          int64 `json:"total"`
	ServerErrors   int64 `json:"serverErrors"`
	LastDurationUs int64 `json:"lastDurationUs"`
}

type limitMetrics struct {
	Rejected int64 `json:"rejected"`
	Clients  int   `json:"clients"`
}

// handleHealth is the liveness probe. It also reports the request and
// rate-limit counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.GetMetrics()
	lm := s.limiter.GetMetrics()
	NewJSONResponse().Body(healthResponse{
		Status:    "ok",
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Uptime:    s.now().Sub(s.startedAt).Round(time.Second).String(),
		Requests: requestMetrics{
			Total:          tm.TotalRequests,
			ServerErrors:   tm.ServerErrors,
			LastDurationUs: tm.LastDurationUs,
		},
		RateLimit: limitMetrics{Rejected: lm.Rejected, Clients: lm.ClientCount},
	}).Write(w)
}

// handleReady checks the store before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready == nil {
		NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.ready(ctx); err != nil {
		NewJSONResponse().
			Status(http.StatusServiceUnavailable).
			Body(map[string]string{"status": "not_ready", "store": "unavailable"}).
			Write(w)
		return
	}
	NewJSONResponse().Body(map[string]string{"status": "ready", "store": "ok"}).Write(w)
}

// filterFromRequest parses the filter query, writing a 400 on failure.
func (s *Server) filterFromRequest(w http.ResponseWriter, r *http.Request) (core.Filter, bool) {
	f, err := ParseFilter(r.URL.Query(), s.today())
	if err != nil {
		body := errorBody{Error: err.Error()}
		var pe *ParamError
		if errors.As(err, &pe) {
			body.Field = pe.Param
		}
		NewJSONResponse().Status(http.StatusBadRequest).Body(body).Write(w)
		return core.Filter{}, false
	}
	return f, true
}
