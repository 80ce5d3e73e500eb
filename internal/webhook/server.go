package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mattjoyce/dmhook/internal/config"
	"github.com/mattjoyce/dmhook/internal/metrics"
)

// Server represents the webhook HTTP server.
type Server struct {
	cfg     *config.Config
	auth    config.Auth
	maxBody int64
	store   Store
	logger  *slog.Logger
	server  *http.Server
	started time.Time
	openapi map[string]any
}

// New creates a new webhook server instance. cfg must already be validated.
func New(cfg *config.Config, store Store, logger *slog.Logger) *Server {
	maxBody, err := cfg.MaxBodyBytes()
	if err != nil {
		maxBody = config.DefaultMaxBodySize
	}

	return &Server{
		cfg:     cfg,
		auth:    cfg.Auth(),
		maxBody: maxBody,
		store:   store,
		logger:  logger,
		started: time.Now(),
		openapi: buildOpenAPIDoc(cfg),
	}
}

// Start starts the webhook HTTP server (blocking). It returns ctx.Err() after
// a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.Webhook.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.cfg.Store.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if s.auth.Mode == config.AuthNone {
		s.logger.Warn("no webhook secret configured; accepting unauthenticated requests",
			"hint", "set "+config.EnvWebhookSecret)
	}
	s.logger.Info("webhook server starting",
		"listen", s.cfg.Webhook.Listen,
		"path", s.cfg.Webhook.Path,
		"auth", s.auth.Mode.String(),
		"store", s.cfg.Store.Driver,
		"max_body_bytes", s.maxBody,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.SetHeader("Access-Control-Allow-Origin", corsAllowOrigin))
	r.Use(middleware.SetHeader("Access-Control-Allow-Headers", corsAllowHeaders))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metricsMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})

	r.Options(s.cfg.Webhook.Path, s.handlePreflight)
	r.Post(s.cfg.Webhook.Path, s.handleDM)
	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.json", s.handleOpenAPI)
	if s.cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// metricsMiddleware records request counts and latency, labelled by route
// pattern to keep cardinality bounded.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// recoverer turns a handler panic into the catch-all 500 body.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			s.requestLogger(r).Error("panic in handler", "panic", rvr, "stack", string(debug.Stack()))
			s.writeError(w, r, errInternal(metrics.ReasonInternal, fmt.Errorf("%v", rvr)))
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	return s.logger.With("request_id", middleware.GetReqID(r.Context()))
}

// writeError records the rejection and sends e as JSON.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, e *Error) {
	metrics.WebhookRejections.WithLabelValues(e.Reason).Inc()

	logger := s.requestLogger(r)
	if e.Kind == KindServer {
		logger.Error("webhook failed", "status", e.Status, "reason", e.Reason, "error", e)
	} else {
		logger.Warn("webhook rejected", "status", e.Status, "reason", e.Reason, "error", e)
	}

	s.respondJSON(w, e.Status, e.Response(s.cfg.Webhook.ExposeErrorDetails))
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}
