package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fahad9993/expense-tracker-gsheet/internal/auth"
	"github.com/fahad9993/expense-tracker-gsheet/internal/backend"
	"github.com/fahad9993/expense-tracker-gsheet/internal/cache"
	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
	"github.com/fahad9993/expense-tracker-gsheet/internal/middleware/ratelimit"
	"github.com/fahad9993/expense-tracker-gsheet/internal/middleware/security"
	"github.com/fahad9993/expense-tracker-gsheet/internal/middleware/trace"
	"github.com/fahad9993/expense-tracker-gsheet/internal/services"
)

type Server struct {
	http.Server
	journal     *services.JournalService
	backend     backend.Backend
	auth        *auth.Service
	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware

	// Suggestion and dashboard reads hit the Sheets API on every call
	// otherwise; both change rarely.
	suggestionsCache *cache.LRUCache[core.Suggestions]
	dashboardCache   *cache.LRUCache[core.Dashboard]
	cacheManager     *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, journal *services.JournalService, be backend.Backend, authSvc *auth.Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		journal:          journal,
		backend:          be,
		auth:             authSvc,
		rateLimiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:         security.NewDetector(),
		suggestionsCache: cache.NewLRUCache[core.Suggestions](1, 10*time.Minute),
		dashboardCache:   cache.NewLRUCache[core.Dashboard](1, 5*time.Minute),
		cacheManager:     cache.NewManager(),
	}

	s.cacheManager.Register(s.suggestionsCache)
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)

	mux.Handle("GET /journal/fetch", s.requireAuth(s.handleFetch))
	mux.Handle("POST /journal/append", s.requireAuth(s.handleAppend))
	mux.Handle("GET /journal/suggestions", s.requireAuth(s.handleSuggestions))
	mux.Handle("GET /filter", s.requireAuth(s.handleFilter))
	mux.Handle("GET /home", s.requireAuth(s.handleFetchQuantities))
	mux.Handle("POST /home", s.requireAuth(s.handleUpdateQuantities))
	mux.Handle("GET /dashboard", s.requireAuth(s.handleDashboard))
	mux.Handle("POST /dashboard", s.requireAuth(s.handleUpdateAmounts))
	mux.Handle("GET /metrics", s.requireAuth(s.handleMetrics))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)
	s.tracer = tracer
	s.Handler = headers.Middleware(tracer.Middleware(s.withRateLimit(mux)))

	return s
}

// withRateLimit flags probe-looking requests and throttles mutating requests
// per client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := s.detector.ExtractClientIP(r)
		if s.detector.DetectSuspiciousRequest(r) {
			slog.Warn("Suspicious request detected",
				"client_ip", ip,
				"method", r.Method,
				"path", r.URL.Path)
		}
		if r.Method == http.MethodPost && !s.rateLimiter.Allow(ip) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the cleanup goroutines before draining connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleMetrics exposes middleware counters for operational checks.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"requests":  s.tracer.GetMetrics(),
		"rateLimit": s.rateLimiter.GetMetrics(),
		"security":  s.detector.GetMetrics(),
		"cache": map[string]int{
			"suggestions": s.suggestionsCache.Size(),
			"dashboard":   s.dashboardCache.Size(),
		},
	})
}

// handleReady checks that the backend answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := s.backend.Suggestions(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "backend not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
