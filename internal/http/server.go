package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"financeai/internal/core"
	"financeai/internal/log"
	"financeai/internal/services"
	"financeai/internal/storage"
)

// Exporter writes a state snapshot somewhere outside the process.
// *storage.SQLiteExporter satisfies it.
type Exporter interface {
	Export(ctx context.Context, s core.State, at time.Time) (storage.ExportSummary, error)
}

// Options configures the API server. Zero values get defaults.
type Options struct {
	Addr           string
	DashboardDays  int
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *log.Logger
	Exporter       Exporter
	// Now is the clock used for "today" on the dashboard and default dates.
	Now func() time.Time
}

type Server struct {
	http.Server
	finance       *services.FinanceService
	chat          *services.ChatService
	exporter      Exporter
	dashboardDays int
	now           func() time.Time
	logger        *log.Logger
	rateLimiter   *rateLimiter
	ready         atomic.Bool
}

func NewServer(finance *services.FinanceService, chat *services.ChatService, opts Options) *Server {
	if opts.DashboardDays <= 0 {
		opts.DashboardDays = 7
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 10
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 20
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		finance:       finance,
		chat:          chat,
		exporter:      opts.Exporter,
		dashboardDays: opts.DashboardDays,
		now:           opts.Now,
		logger:        opts.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter:   newRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
	}
	s.ready.Store(true)

	s.Addr = opts.Addr
	s.Handler = s.routes(opts.Logger)
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 15 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 20
	return s
}

func (s *Server) routes(logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(log.Middleware(logger))
	r.Use(log.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(DefaultSecurityHeaders().middleware)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimiter.middleware)

		r.Get("/state", s.handleState)
		r.Get("/categories", handleCategories)
		r.Get("/dashboard", s.handleDashboard)
		r.Put("/loading", s.handleSetLoading)
		r.Post("/export", s.handleExport)

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleRecordTransaction)

		r.Get("/budgets", s.handleListBudgets)
		r.Post("/budgets", s.handleCreateBudget)
		r.Patch("/budgets/{id}", s.handleReviseBudget)

		r.Get("/goals", s.handleListGoals)
		r.Post("/goals", s.handleCreateGoal)
		r.Post("/goals/{id}/contributions", s.handleContribute)

		r.Get("/chat", s.handleChatHistory)
		r.Post("/chat", s.handleSendChat)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})
	return r
}

// Shutdown marks the server unready, stops background work and drains
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	NewResponse().JSON(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		ServiceUnavailableError("shutting down").Write(w)
		return
	}
	NewResponse().JSON(map[string]string{"status": "ready"}).Write(w)
}
