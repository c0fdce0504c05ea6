// Package server wires handlers, middleware and routes, and owns the HTTP
// server lifecycle. main.go stays minimal; everything composable lives
// here, which also makes the whole stack constructible in tests.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/textshare/internal/auth"
	"github.com/sakif/textshare/internal/code"
	"github.com/sakif/textshare/internal/handler"
	"github.com/sakif/textshare/internal/middleware"
	"github.com/sakif/textshare/internal/repository"
	filerepo "github.com/sakif/textshare/internal/repository/file"
	sqliterepo "github.com/sakif/textshare/internal/repository/sqlite"
	"github.com/sakif/textshare/internal/service"
	"github.com/sakif/textshare/internal/ws"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port int
	// StoreBackend selects persistence: "sqlite" (default) or "file".
	StoreBackend string
	// DBPath is the sqlite database file (sqlite backend).
	DBPath string
	// DataDir is the record directory (file backend).
	DataDir string
}

// Server is the composed application: router, store and all handlers.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	// closer shuts the storage backend down; nil for backends without one.
	closer io.Closer
}

// New builds the dependency chain: store → service → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	repo, closer, err := newRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		closer: closer,
	}
	s.setupRoutes(repo)
	return s, nil
}

// newRepository picks the persistence backend from config.
func newRepository(cfg Config) (repository.TextRepository, io.Closer, error) {
	switch cfg.StoreBackend {
	case "", "sqlite":
		db, err := sqliterepo.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case "file":
		store, err := filerepo.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// setupRoutes attaches middleware and wires every route.
//
// Route map:
//
//	POST   /api/text        create a snippet
//	GET    /api/text/{id}   read a snippet (password via query)
//	DELETE /api/text/{id}   delete a snippet (password via body)
//	GET    /ws              realtime room channel
//	GET    /healthz         liveness probe
func (s *Server) setupRoutes(repo repository.TextRepository) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	texts := service.NewTextService(
		repo,
		code.NewGenerator(repo),
		auth.NewPasswordService(),
		s.logger,
	)
	textHandler := handler.NewTextHandler(texts, s.logger)

	hub := ws.NewHub(texts, s.logger)
	wsHandler := ws.NewHandler(hub, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/text", textHandler.HandleCreate)
		r.Get("/text/{id}", textHandler.HandleGet)
		r.Delete("/text/{id}", textHandler.HandleDelete)
	})
	s.router.Handle("/ws", wsHandler)

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the store.
func (s *Server) Start() error {
	defer func() {
		if s.closer != nil {
			s.closer.Close()
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		// Write timeout must stay 0: it would kill long-lived websocket
		// connections. Per-message deadlines are handled in the ws package.
		IdleTimeout: 60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("store", storeName(s.config)),
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

func storeName(cfg Config) string {
	if cfg.StoreBackend == "file" {
		return "file:" + cfg.DataDir
	}
	return "sqlite:" + cfg.DBPath
}
