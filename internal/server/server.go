package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/placement-pipeline/internal/config"
	"github.com/jonathan/placement-pipeline/internal/db"
	"github.com/jonathan/placement-pipeline/internal/llm"
	"github.com/jonathan/placement-pipeline/internal/pdf"
	"github.com/jonathan/placement-pipeline/internal/pipeline"
	"github.com/jonathan/placement-pipeline/internal/quota"
	"github.com/jonathan/placement-pipeline/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	pipeline   *pipeline.Service
	validate   *validator.Validate

	shutdownTimeout time.Duration
}

// New creates a server with all collaborators wired from configuration:
// database, object storage, Gemini client, quota tracker, and PDF renderer.
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	store, err := storage.NewLocalStore(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	svc, err := pipeline.NewService(pipeline.Options{
		Analyses:       database,
		Profiles:       database,
		Improved:       database,
		Storage:        store,
		LLM:            client,
		Tracker:        quota.New(cfg.QuotaPerMinute, cfg.QuotaPerDay),
		Renderer:       pdf.NewChromeRenderer(),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	if err != nil {
		database.Close()
		return nil, err
	}

	s := newServer(svc, database, cfg)
	s.httpServer.Handler = s.withLogging(s.withCORS(s.routes(cfg.StorageDir)))
	return s, nil
}

// newServer builds a Server around an existing pipeline service. Split from
// New so tests can supply a service backed by fakes.
func newServer(svc *pipeline.Service, database *db.DB, cfg *config.Config) *Server {
	return &Server{
		db:              database,
		pipeline:        svc,
		validate:        validator.New(),
		shutdownTimeout: cfg.ShutdownTimeout,
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second, // AI calls can be slow
			IdleTimeout:  60 * time.Second,
		},
	}
}

// routes builds the request mux.
func (s *Server) routes(storageDir string) http.Handler {
	mux := http.NewServeMux()

	// Resume pipeline endpoints
	mux.HandleFunc("POST /students/{id}/resume", s.handleUploadResume)
	mux.HandleFunc("POST /students/{id}/resume/reanalyze", s.handleReanalyze)
	mux.HandleFunc("GET /students/{id}/resume/analysis", s.handleLatestAnalysis)
	mux.HandleFunc("GET /analyses/{id}", s.handleGetAnalysis)

	// Improvement endpoints
	mux.HandleFunc("POST /students/{id}/resume/improve", s.handleImprove)
	mux.HandleFunc("GET /improved/{id}", s.handleGetImproved)

	// Profile endpoints
	mux.HandleFunc("GET /students/{id}/profile/merged", s.handleMergedProfile)
	mux.HandleFunc("POST /students/{id}/profile/reconcile", s.handleReconcile)
	mux.HandleFunc("DELETE /students/{id}/resume/extracted/{category}", s.handleRemoveExtracted)

	// Operational endpoints
	mux.HandleFunc("GET /quota", s.handleQuota)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Stored resume and PDF files
	if storageDir != "" {
		mux.Handle("GET /files/", http.StripPrefix("/files/", http.FileServer(http.Dir(storageDir))))
	}

	return mux
}

// Start begins listening for requests and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
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

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleQuota reports the remaining AI call budget without consuming it.
func (s *Server) handleQuota(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.pipeline.QuotaInfo())
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// pipelineError maps an operation error to its HTTP status, setting
// Retry-After for rate limited responses.
func (s *Server) pipelineError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusTooManyRequests {
		setRetryAfter(w, err)
	}
	s.errorResponse(w, status, err.Error())
}
