package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/server/middleware"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
	"github.com/jonathan/resume-parser/internal/types"
)

// ParseStore persists parse results. *db.DB implements it.
type ParseStore interface {
	SaveParse(ctx context.Context, meta *ingestion.Metadata, result *types.ParseResult) (uuid.UUID, error)
	GetParse(ctx context.Context, id uuid.UUID) (*db.ParseRecord, error)
	ListParses(ctx context.Context, filters db.ParseFilters) ([]db.ParseSummary, error)
	DeleteParse(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Port           int
	MaxUploadBytes int64
	CORSOrigin     string
}

// Options holds the optional collaborators of a Server
type Options struct {
	Logger    *slog.Logger
	Store     ParseStore           // nil disables persistence and the /parses endpoints
	Cleaner   pipeline.TextCleaner // nil disables model cleanup
	JWT       *config.JWTConfig    // nil disables bearer authentication
	RateLimit *ratelimit.Config    // nil loads RATE_LIMIT_* from the environment
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	logger      *slog.Logger
	parser      *pipeline.Parser
	cleaner     pipeline.TextCleaner
	store       ParseStore
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	maxUpload   int64
	corsOrigin  string
}

// New creates a new server instance
func New(cfg Config, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rateCfg := opts.RateLimit
	if rateCfg == nil {
		rateCfg = ratelimit.LoadConfig()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = config.DefaultMaxUploadBytes
	}
	corsOrigin := cfg.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	s := &Server{
		logger:      logger,
		parser:      pipeline.New(pipeline.Options{Logger: logger, Cleaner: opts.Cleaner}),
		cleaner:     opts.Cleaner,
		store:       opts.Store,
		rateLimiter: ratelimit.NewLimiter(rateCfg),
		maxUpload:   maxUpload,
		corsOrigin:  corsOrigin,
	}
	if opts.JWT != nil {
		s.jwtService = NewJWTService(opts.JWT)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped router
func (s *Server) Handler() http.Handler {
	protected := s.withAuth()

	mux := http.NewServeMux()
	mux.Handle("POST /parse-resume", protected(http.HandlerFunc(s.handleParseResume)))
	mux.Handle("POST /parse-resume/stream", protected(http.HandlerFunc(s.handleParseResumeStream)))
	mux.Handle("GET /parses", protected(http.HandlerFunc(s.handleListParses)))
	mux.Handle("GET /parses/{id}", protected(http.HandlerFunc(s.handleGetParse)))
	mux.Handle("DELETE /parses/{id}", protected(http.HandlerFunc(s.handleDeleteParse)))
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr, "auth", s.jwtService != nil, "storage", s.store != nil)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withAuth returns the bearer-token middleware, or a pass-through when auth is disabled
func (s *Server) withAuth() func(http.Handler) http.Handler {
	if s.jwtService == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "X-Parse-ID, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Flush keeps SSE streaming working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging assigns a request ID and logs each request with its status and duration
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to its HTTP status and writes it
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.errorResponse(w, status, err.Error())
}

// clientID identifies the caller for rate limiting by remote IP
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded", "client", clientID(r), "path", r.URL.Path, "limit", info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
