// Package httpapi exposes the catalog over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pricetrack/internal/config"
	"pricetrack/internal/metrics"
	"pricetrack/internal/store"
)

// Handler holds the API state.
type Handler struct {
	store   *store.Store
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewHandler wires the store into the API; m may be nil. now sets the
// analytics windows and should be the clock the store stamps dates with;
// nil means time.Now.
func NewHandler(s *store.Store, m *metrics.Metrics, now func() time.Time, logger zerolog.Logger) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store:   s,
		metrics: m,
		logger:  logger.With().Str("component", "http_api").Logger(),
		now:     now,
	}
}

// Router builds the chi router with the common middleware stack.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(h.observe)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", h.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.ListSuppliers)
			r.Post("/", h.CreateSupplier)
			r.Get("/{id}", h.GetSupplier)
			r.Patch("/{id}", h.UpdateSupplier)
			r.Delete("/{id}", h.DeleteSupplier)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Patch("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
			r.Put("/{id}/prices/{supplierId}", h.SetPrice)
			r.Get("/{id}/comparison", h.PriceComparison)
			r.Get("/{id}/history/{supplierId}", h.PriceHistory)
		})

		r.Get("/categories", h.ListCategories)

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", h.ListAlerts)
			r.Post("/{id}/read", h.MarkAlertRead)
			r.Delete("/{id}", h.DeleteAlert)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/savings", h.Savings)
			r.Get("/stats", h.Stats)
			r.Get("/trends", h.Trends)
			r.Get("/recent", h.RecentUpdates)
		})

		r.Get("/export.csv", h.ExportCSV)
	})

	return r
}

// observe logs and measures every request under its route pattern.
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		done := h.metrics.RequestStarted()
		defer done()

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		h.metrics.ObserveHTTP(r.Method, route, status, elapsed)
		h.logger.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request served")
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Server runs the API until its context is cancelled.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewServer builds the HTTP server from config.
func NewServer(cfg config.HTTPConfig, handler http.Handler, logger zerolog.Logger) *Server {
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 10 * time.Second
	}
	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: shutdown,
		logger:          logger.With().Str("component", "http_server").Logger(),
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("http server listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}
