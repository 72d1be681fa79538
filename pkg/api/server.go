package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/checkers/pkg/engine"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host           string        // Host to bind to (default "localhost")
	Port           int           // Port to listen on (default 8080)
	ReadTimeout    time.Duration // Read timeout (default 30s)
	WriteTimeout   time.Duration // Write timeout (default 60s, searches can be slow)
	IdleTimeout    time.Duration // Idle timeout (default 60s)
	MaxFastWorkers int           // Max concurrent fast operations (default 100)
	MaxSlowWorkers int           // Max concurrent searches (default 4)
	SessionTTL     time.Duration // Drop games idle for this long (default 1h, negative = never)
	QueueTimeout   time.Duration // Max wait for a worker slot (default 30s, negative = no limit)
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:           "localhost",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: 100,
		MaxSlowWorkers: 4,
		SessionTTL:     time.Hour,
		QueueTimeout:   30 * time.Second,
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	engine   *engine.Engine
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	version  string

	// Cancels the idle-game pruner
	ctx  context.Context
	stop context.CancelFunc
}

// NewServer creates a new API server.
func NewServer(e *engine.Engine, config ServerConfig, version string) *Server {
	pool := NewWorkerPool(PoolConfig{
		MaxFastWorkers: config.MaxFastWorkers,
		MaxSlowWorkers: config.MaxSlowWorkers,
		QueueTimeout:   config.QueueTimeout,
	})
	if config.SessionTTL == 0 {
		config.SessionTTL = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config:   config,
		engine:   e,
		handlers: NewHandlersWithPool(e, version, pool),
		pool:     pool,
		version:  version,
		ctx:      ctx,
		stop:     cancel,
	}
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// route is one API endpoint: a ServeMux pattern and a line for the startup log
type route struct {
	pattern string
	summary string
	handler http.HandlerFunc
}

func (s *Server) routes() []route {
	h := s.handlers
	return []route{
		{"GET /api/health", "Health check", h.Health},
		{"POST /api/games", "Start a game", h.NewGame},
		{"GET /api/games/{id}", "Game state", h.GetGame},
		{"DELETE /api/games/{id}", "End a game", h.DeleteGame},
		{"POST /api/games/{id}/move", "Play a human move", h.PlayMove},
		{"POST /api/games/{id}/ai", "Let the engine move", h.ComputerMove},
		{"POST /api/evaluate", "Material evaluation", h.Evaluate},
		{"POST /api/jumps", "Moves of one piece", h.Jumps},
		{"POST /api/analyze", "Rank all moves", h.Analyze},
		{"POST /api/review", "Rate a played move", h.Review},
		{"GET /api/selfplay/stream", "Engine self-play (SSE)", h.SelfPlaySSE},
		{"/api/ws", "WebSocket for interactive play", h.WebSocket},
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	for _, rt := range s.routes() {
		mux.HandleFunc(rt.pattern, rt.handler)
	}
	return corsMiddleware(loggingMiddleware(mux))
}

// pruneSessions drops idle games until ctx is done.
func (s *Server) pruneSessions(ctx context.Context) {
	if s.config.SessionTTL < 0 {
		return
	}
	ticker := time.NewTicker(max(s.config.SessionTTL/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.handlers.Games().Prune(s.config.SessionTTL); n > 0 {
				log.Printf("Pruned %d idle games", n)
			}
		}
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	go s.pruneSessions(s.ctx)

	log.Printf("Starting checkers API server v%s on %s (depth %d, rules %s)",
		s.version, addr, s.engine.Depth(), s.engine.Rules())
	for _, rt := range s.routes() {
		log.Printf("  %-30s %s", rt.pattern, rt.summary)
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}
