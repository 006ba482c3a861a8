package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"patent-checker/internal/middleware"
	"patent-checker/internal/services/infringement"
)

type Router struct {
	chi.Router
}

// RouterConfig configures the middleware chain
type RouterConfig struct {
	RequestTimeout time.Duration
	RateLimit      middleware.RateLimitConfig
	Metrics        middleware.HTTPRecorder
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, AssessmentIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.RateLimit(cfg.RateLimit))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Not Found",
			"message": "The requested resource could not be found.",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, infringement.ErrCodeMethodNotAllowed, "Method "+r.Method+" is not allowed on "+r.URL.Path)
	})

	return &Router{r}
}

// RegisterAssessmentRoutes registers assessment routes
func (r *Router) RegisterAssessmentRoutes(h *AssessmentHandler) {
	h.RegisterRoutes(r)
}

// RegisterRootRoutes registers the smoke-test routes
func (r *Router) RegisterRootRoutes(h *RootHandler) {
	h.RegisterRoutes(r)
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterHealthRoutes registers health check routes; /ready pings db
func (r *Router) RegisterHealthRoutes(db Pinger) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":    "unavailable",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ready",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
}

// RegisterMetricsRoutes registers the Prometheus scrape endpoint
func (r *Router) RegisterMetricsRoutes(handler http.Handler) {
	r.Method(http.MethodGet, "/metrics", handler)
}
