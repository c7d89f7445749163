package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
	"budget/internal/ports"
	"budget/internal/services"
)

// Services are the application services the handlers call.
type Services struct {
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Settings     *services.SettingsService
	Dashboard    *services.DashboardService
}

type Options struct {
	Addr               string
	RateLimitPerMinute int
	Logger             *applog.Logger
	Clock              ports.Clock
	// Ready is consulted by /readyz; nil means always ready.
	Ready func(ctx context.Context) error
}

type Server struct {
	http.Server
	svc       Services
	now       ports.Clock
	ready     func(context.Context) error
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	startedAt time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(svc Services, opts Options) *Server {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	s := &Server{
		svc:       svc,
		now:       now,
		ready:     opts.Ready,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		tracer:    trace.NewMiddleware(opts.Logger, clientIP),
		startedAt: now(),
	}

	// component tags the request logger with the handler's domain.
	component := func(name string, h http.HandlerFunc) http.Handler {
		return applog.ComponentMiddleware(name)(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.Handle("GET /api/transactions", component(applog.ComponentTransaction, s.handleListTransactions))
	mux.Handle("POST /api/transactions", component(applog.ComponentTransaction, s.handleCreateTransaction))
	mux.Handle("GET /api/transactions/export.xlsx", component(applog.ComponentExport, s.handleExportTransactions))
	mux.Handle("PUT /api/transactions/{id}", component(applog.ComponentTransaction, s.handleUpdateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", component(applog.ComponentTransaction, s.handleDeleteTransaction))

	mux.Handle("GET /api/categories", component(applog.ComponentCategory, s.handleListCategories))
	mux.Handle("POST /api/categories", component(applog.ComponentCategory, s.handleCreateCategory))
	mux.Handle("PUT /api/categories/{id}", component(applog.ComponentCategory, s.handleUpdateCategory))
	mux.Handle("DELETE /api/categories/{id}", component(applog.ComponentCategory, s.handleDeleteCategory))

	mux.Handle("GET /api/settings", component(applog.ComponentSettings, s.handleGetSettings))
	mux.Handle("PUT /api/settings", component(applog.ComponentSettings, s.handleUpdateSettings))

	mux.Handle("GET /api/summary", component(applog.ComponentDashboard, s.handleSummary))
	mux.Handle("GET /api/expenses-by-category", component(applog.ComponentDashboard, s.handleExpensesByCategory))
	mux.Handle("GET /api/monthly", component(applog.ComponentDashboard, s.handleMonthly))
	mux.Handle("GET /api/dashboard", component(applog.ComponentDashboard, s.handleDashboard))

	limited := s.limiter.Middleware(clientIP, ratelimit.WritesOnly, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
	})(mux)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(limited)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.tracer.Middleware(headers),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) today() core.Date {
	return core.DateOf(s.now())
}

// clientIP prefers proxy headers over the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
