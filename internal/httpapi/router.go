// Package httpapi wires the HTTP surface of the finance service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"context"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"log/slog"

	"github.com/pocketfin/pocketfin/internal/service/stats"
	"github.com/pocketfin/pocketfin/internal/service/transaction"
	"github.com/pocketfin/pocketfin/internal/service/wallet"
)

// ReadyChecker reports whether the storage backend is reachable. The
// in-memory store has no such notion, so it is optional.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Server wires handlers and middleware using Chi.
type Server struct {
	walletSvc wallet.Service
	txSvc     transaction.Service
	statsSvc  stats.Service
	ready     ReadyChecker
	log       *slog.Logger
	rt        *chi.Mux
}

// New constructs the HTTP server with routes and middleware. ready may be nil.
func New(walletSvc wallet.Service, txSvc transaction.Service, statsSvc stats.Service, ready ReadyChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		walletSvc: walletSvc,
		txSvc:     txSvc,
		statsSvc:  statsSvc,
		ready:     ready,
		log:       logger,
		rt:        r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	// Wallets (v1)
	s.rt.Post("/v1/wallets", s.postWallet)
	s.rt.Get("/v1/wallets", s.listWallets)
	s.rt.Get("/v1/wallets/{id}", s.getWallet)
	s.rt.Patch("/v1/wallets/{id}", s.patchWallet)
	s.rt.Delete("/v1/wallets/{id}", s.deleteWallet)
	// Transactions (v1)
	s.rt.With(s.validatePostTransaction()).Post("/v1/transactions", s.postTransaction)
	s.rt.Get("/v1/transactions", s.listTransactions)
	s.rt.Delete("/v1/transactions/{id}", s.deleteTransaction)
	// Statistics (v1)
	s.rt.Get("/v1/stats", s.getStats)
	s.rt.Get("/v1/stats/categories", s.getCategoryBreakdown)
	// Category dictionary (v1)
	s.rt.Get("/v1/categories", s.listCategories)
	// Operational (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
