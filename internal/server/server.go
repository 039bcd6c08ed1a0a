// Package server provides the local HTTP editor API for the portfolio.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio-keeper/internal/autosave"
	"github.com/jonathan/portfolio-keeper/internal/kv"
	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/observability"
	"github.com/jonathan/portfolio-keeper/internal/persistence"
	"github.com/jonathan/portfolio-keeper/internal/transfer"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      kv.Store
	gateway    *persistence.Gateway
	coord      *autosave.Coordinator
	transfer   *transfer.Service
	hub        *statusHub
	log        *logging.Logger
}

// Config holds server configuration
type Config struct {
	Host string // defaults to 127.0.0.1; the editor has no authentication
	Port int
}

// Deps are the collaborators the server drives.
type Deps struct {
	Store    kv.Store
	Gateway  *persistence.Gateway
	Initial  types.PortfolioRecord
	Defaults func() types.PortfolioRecord
	Delay    time.Duration
	Clock    autosave.Clock
	Logger   *logging.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	log := logging.OrNop(deps.Logger).With("component", "server")
	s := &Server{
		store:   deps.Store,
		gateway: deps.Gateway,
		hub:     newStatusHub(),
		log:     log,
	}

	opts := []autosave.Option{
		autosave.WithDelay(deps.Delay),
		autosave.WithLogger(deps.Logger),
		autosave.WithStatusListener(s.hub.publish),
	}
	if deps.Clock != nil {
		opts = append(opts, autosave.WithClock(deps.Clock))
	}
	s.coord = autosave.NewCoordinator(deps.Initial, deps.Gateway, opts...)
	s.transfer = transfer.NewService(s.coord, deps.Defaults, deps.Logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /portfolio", s.handleGetPortfolio)
	mux.HandleFunc("GET /draft", s.handleGetDraft)
	mux.HandleFunc("PATCH /draft/fields/{field}", s.handleSetField)
	mux.HandleFunc("PUT /draft/languages", s.handleSetLanguages)
	mux.HandleFunc("POST /draft/{section}", s.handleAddItem)
	mux.HandleFunc("PUT /draft/{section}/{index}", s.handleSetItemField)
	mux.HandleFunc("DELETE /draft/{section}/{index}", s.handleDeleteItem)
	mux.HandleFunc("POST /draft/flush", s.handleFlush)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /status/stream", s.handleStatusStream)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("POST /import", s.handleImport)
	mux.HandleFunc("POST /clear", s.handleClear)
	mux.HandleFunc("GET /backups", s.handleListBackups)
	mux.HandleFunc("POST /backups/{index}/restore", s.handleRestoreBackup)
	mux.Handle("GET /metrics", promhttp.Handler())

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(host, fmt.Sprintf("%d", cfg.Port)),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // status streams stay open
		IdleTimeout:  60 * time.Second,
	}
	// Status streams only end when the hub closes, so Shutdown must close it.
	s.httpServer.RegisterOnShutdown(s.hub.close)

	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Coordinator returns the auto-save coordinator backing the draft endpoints.
func (s *Server) Coordinator() *autosave.Coordinator {
	return s.coord
}

// Start serves until ctx is cancelled, then shuts down: in-flight requests finish, the
// pending auto-save is flushed and the store is closed. A file store is watched for
// writes by other processes while serving.
func (s *Server) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if fs, ok := kv.AsFileStore(s.store); ok {
		g.Go(func() error {
			err := fs.Watch(gCtx, func(key string) {
				observability.ExternalChangesTotal.Inc()
				s.log.Warn("Store modified by another process; concurrent writers may lose backups", "key", key)
			})
			if err != nil {
				s.log.Warn("Store watcher stopped", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("Shutting down server...")
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
	}

	// The final save gets its own deadline; Shutdown may have used up ctx.
	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer flushCancel()
	if err := s.coord.Flush(flushCtx); err != nil {
		errs = append(errs, fmt.Errorf("final save failed: %w", err))
	}
	s.coord.Close()
	s.hub.close()
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close failed: %w", err))
	}
	s.log.Info("Server stopped")
	return errors.Join(errs...)
}

type requestIDKey struct{}

// RequestID returns the id assigned to the request by the logging middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging tags each request with an id and logs its outcome
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

		if strings.HasPrefix(r.URL.Path, "/metrics") || r.URL.Path == "/health" {
			return
		}
		s.log.Debug("Request completed",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush lets status streams pass through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("Error encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errResponse maps err to a status code and writes it
func (s *Server) errResponse(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
