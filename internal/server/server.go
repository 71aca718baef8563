// Package server exposes the expense service over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"sync"
	"time"

	"github.com/Veraticus/spendwise/internal/llm"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

// ExpenseAPI is the behaviour the HTTP handlers need.
type ExpenseAPI interface {
	AddExpense(ctx context.Context, in service.NewExpense) (model.Expense, error)
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	Summary(ctx context.Context) ([]model.CategoryTotal, error)
	Chat(ctx context.Context, message string) string
	Ready(ctx context.Context) error
}

// Config controls the listener and middleware.
type Config struct {
	Addr           string
	AllowedOrigins []string
	// PostsPerMinute limits POST requests per client. Zero disables the limit.
	PostsPerMinute int
	MaxBodyBytes   int64
	// TrustedProxies lists proxy addresses or CIDR ranges whose
	// X-Forwarded-For and X-Real-IP headers identify the client.
	TrustedProxies []string
	// WriteTimeout must outlast the slowest model chain. Zero derives it
	// from the default model configuration.
	WriteTimeout time.Duration
}

// writeTimeoutMargin covers the store round trips and encoding around a
// model chain.
const writeTimeoutMargin = 15 * time.Second

// WriteTimeoutFor returns a write deadline long enough for a request whose
// model chain exhausts every identifier in models.
func WriteTimeoutFor(models llm.Config) time.Duration {
	return models.WorstCaseLatency() + writeTimeoutMargin
}

// Server is an http.Server with the expense routes mounted.
type Server struct {
	http.Server
	api          ExpenseAPI
	logger       *slog.Logger
	limiter      *clientLimiter
	started      time.Time
	origins      map[string]bool
	allowAll     bool
	maxBody      int64
	proxies      []netip.Prefix
	shutdownOnce sync.Once
}

// New configures routes and middleware, returning a ready-to-run server.
func New(cfg Config, api ExpenseAPI, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":5000"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = WriteTimeoutFor(llm.DefaultConfig())
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              cfg.Addr,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       120 * time.Second,
		},
		api:     api,
		logger:  logger,
		started: time.Now(),
		origins: make(map[string]bool),
		maxBody: cfg.MaxBodyBytes,
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			s.allowAll = true
		}
		s.origins[o] = true
	}
	for _, p := range cfg.TrustedProxies {
		prefix, err := parseProxy(p)
		if err != nil {
			logger.Warn("Ignoring invalid trusted proxy", "proxy", p, "error", err)
			continue
		}
		s.proxies = append(s.proxies, prefix)
	}
	if cfg.PostsPerMinute > 0 {
		s.limiter = newClientLimiter(cfg.PostsPerMinute)
	}

	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("POST /add-expense", s.handleAddExpense)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("DELETE /delete/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	s.Handler = s.withMiddleware(mux)
	return s
}

// Shutdown gracefully stops the server and its background work.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}
