// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root that decides
// which URL patterns map to which handlers, what middleware runs, and how
// the server starts and stops gracefully. main.go stays minimal; all
// dependencies are assembled here:
//
//	store (file or sqlite) → services (+ reddit client) → handlers → routes
//
// Handlers never touch the store directly and services never touch HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/code-cards/internal/handler"
	"github.com/sakif/code-cards/internal/middleware"
	"github.com/sakif/code-cards/internal/reddit"
	"github.com/sakif/code-cards/internal/service"
	"github.com/sakif/code-cards/internal/store"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port          int
	StaticDir     string        // static client files; "" disables the route
	StoreBackend  string        // "file" (default) or "sqlite"
	StorePath     string        // JSON file path, or sqlite database path
	RedditTimeout time.Duration // bound on each upstream metadata fetch
}

// Server owns the router and the store. The store is closed during
// graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  store.Store
}

// New assembles the full dependency chain for the given config.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	st, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  st,
	}
	s.setupRoutes()
	return s, nil
}

// newStore selects the storage backend. The flat JSON file is the default
// durable layout; sqlite keeps the same whole-document contract behind a
// transactional engine.
func newStore(cfg Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "", "file":
		return store.NewFileStore(cfg.StorePath), nil
	case "sqlite":
		return store.NewSQLiteStore(cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// setupRoutes configures middleware and the route table.
//
// ROUTE STRUCTURE:
//
//	GET  /cards               → all cards, or ?ids=a,b,c subset (JSON array)
//	GET  /cards/{id}          → single card (JSON object)
//	GET  /cards/{id}/reddit   → live upstream thread metadata
//	POST /cards               → create card
//	GET  /comments[...]       → same three modes as cards
//	POST /comments            → create comment under a parent card
//	PUT  /comments/{id}       → edit comment content
//	PUT  /comments            → 400 no-comment-to-put
//	GET  /*                   → static client files (if configured)
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID) // per-request xid, X-Request-ID header
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	redditClient := reddit.NewClient(s.config.RedditTimeout, s.logger)

	cardService := service.NewCardService(s.store, redditClient, s.logger)
	commentService := service.NewCommentService(s.store, s.logger)

	cardHandler := handler.NewCardHandler(cardService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)

	// {id:[0-9]+} keeps non-numeric ids out of the handlers entirely, the
	// same way the original routes matched only digit ids.
	s.router.Get("/cards", cardHandler.HandleList)
	s.router.Get("/cards/{id:[0-9]+}", cardHandler.HandleGetByID)
	s.router.Get("/cards/{id:[0-9]+}/reddit", cardHandler.HandleRedditThread)
	s.router.Post("/cards", cardHandler.HandleCreate)

	s.router.Get("/comments", commentHandler.HandleList)
	s.router.Get("/comments/{id:[0-9]+}", commentHandler.HandleGetByID)
	s.router.Post("/comments", commentHandler.HandleCreate)
	s.router.Put("/comments/{id:[0-9]+}", commentHandler.HandleEdit)
	s.router.Put("/comments", commentHandler.HandleEditMissingID)

	// Static client. Explicit routes above always win over the wildcard.
	if s.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.Handle("/*", fileServer)
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the store.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("storeBackend", s.config.StoreBackend),
			slog.String("storePath", s.config.StorePath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
