// api/internal/api/router/router.go
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Poojareddy2809/shadowshare/api/internal/api/handlers"
	gateway "github.com/Poojareddy2809/shadowshare/api/internal/api/middleware"
)

// RouterConfig defines the strict dependencies required to build the API routing tree.
type RouterConfig struct {
	AllowedOrigins    []string
	MaxBodyBytes      int64
	RequestTimeout    time.Duration
	CryptoHandler     *handlers.CryptoHandler
	TranslateHandler  *handlers.TranslateHandler
	HealthHandler     *handlers.HealthHandler
	RateLimiter       *gateway.RateLimiter
	Logger            *slog.Logger
	TrustProxyHeaders bool // enables chi's RealIP; off, the limiter keys on the TCP peer
}

// NewRouter constructs the Chi multiplexer, attaches global middleware, and wires all endpoints.
func NewRouter(cfg RouterConfig) *chi.Mux {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 << 20
	}

	r := chi.NewRouter()

	// =========================================================================
	// 1. Global Gateway Middleware Pipeline
	// =========================================================================

	r.Use(middleware.RequestID)
	// 🛡️ Forwarding headers are client-controlled unless a trusted proxy rewrites them
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(gateway.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(gateway.SecurityHeaders)

	// The browser form lives on another origin during development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// =========================================================================
	// 2. API v1 Routing Tree
	// =========================================================================

	r.Route("/api/v1", func(r chi.Router) {
		// 🛡️ Limit request bodies (OOM Protection) and throttle per client
		r.Use(gateway.MaxBytes(maxBody))
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Handler)
		}

		r.Post("/encrypt", cfg.CryptoHandler.Encrypt)
		r.Post("/decrypt", cfg.CryptoHandler.Decrypt)
		r.Post("/translate", cfg.TranslateHandler.Translate)
	})

	r.Get("/health", cfg.HealthHandler.Check)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	return r
}
