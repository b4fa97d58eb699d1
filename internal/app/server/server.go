package server

import (
	"context"
	"errors"
	"fmt"
	"francoggm/versapay-checkout/internal/app/server/handlers"
	"francoggm/versapay-checkout/internal/config"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	handlers *handlers.Handlers
}

func NewServer(cfg *config.Config, h *handlers.Handlers) *Server {
	srv := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		handlers: h,
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handlers.Health)

	s.router.Route("/checkout", func(r chi.Router) {
		r.Get("/render", s.handlers.RenderCheckout)
		r.Post("/session", s.handlers.RefreshSession)
		r.Post("/sale", s.handlers.FinalizeSale)
	})

	s.router.Post("/orders/{orderID}/payment", s.handlers.PersistPayment)
	s.router.Get("/orders/{orderID}/payment", s.handlers.GetPayment)
	s.router.Put("/customers/{customerID}/wallet", s.handlers.SetWallet)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.Server.Port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
