package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dividas/internal/backend"
	"dividas/internal/cache"
	"dividas/internal/core"
	applog "dividas/internal/log"
	appweb "dividas/web"
)

const statsCacheKey = "statistics"

type Server struct {
	http.Server
	templates   *template.Template
	backend     backend.Backend
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	sessions    *sessionStore

	// statsCache holds the aggregated dashboard numbers between writes.
	statsCache cache.Store[core.Statistics]

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. The statistics cache may be in-process or Redis-backed; nil
// disables caching.
func NewServer(addr string, b backend.Backend, statsCache cache.Store[core.Statistics]) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		backend:     b,
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
		sessions:    newSessionStore(),
		statsCache:  statsCache,
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/debts", s.withSecurityHeaders(s.handleCreateDebt))
	mux.HandleFunc("/debts/update", s.withSecurityHeaders(s.handleUpdateDebt))
	mux.HandleFunc("/debts/delete", s.withSecurityHeaders(s.handleDeleteDebt))
	mux.HandleFunc("/debts/pay", s.withSecurityHeaders(s.handleRegisterPayment))
	mux.HandleFunc("/alerts/dismiss", s.withSecurityHeaders(s.handleDismissReminder))

	// UI partials
	mux.HandleFunc("/ui/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("/ui/debts", s.withSecurityHeaders(s.handleDebtList))
	mux.HandleFunc("/ui/reminders", s.withSecurityHeaders(s.handleReminders))

	mux.HandleFunc("/export.xlsx", s.withSecurityHeaders(s.handleExport))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.sessions != nil {
			s.sessions.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to handlers.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request",
				applog.FieldComponent, applog.ComponentSecurity,
				applog.FieldRequestID, requestID,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldClientIP, clientIP)
		}

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		// Rate limiting applies to mutations only.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldComponent, applog.ComponentRateLimit,
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		fields := applog.NewFields().
			WithRequestID(requestID).
			WithClientIP(clientIP).
			WithHTTPRequest(r.Method, r.URL.Path).
			WithHTTPResponse(rw.statusCode, duration.Milliseconds(), rw.statusCode < 400)
		slog.InfoContext(ctx, "Request completed", fields.ToSlice()...)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.backend.ListDebts(r.Context()); err != nil {
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// getStatistics returns the aggregated dashboard numbers, via cache when
// one is configured.
func (s *Server) getStatistics(ctx context.Context) (core.Statistics, error) {
	if s.statsCache != nil {
		if stats, ok := s.statsCache.Get(ctx, statsCacheKey); ok {
			slog.DebugContext(ctx, "Statistics cache hit")
			return stats, nil
		}
	}

	debts, err := s.backend.ListDebts(ctx)
	if err != nil {
		return core.Statistics{}, fmt.Errorf("list debts: %w", err)
	}
	stats := core.Summarize(debts)

	if s.statsCache != nil {
		s.statsCache.Set(ctx, statsCacheKey, stats)
	}
	return stats, nil
}

func (s *Server) invalidateStatistics(ctx context.Context) {
	if s.statsCache != nil {
		s.statsCache.Delete(ctx, statsCacheKey)
	}
}
