package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	httphandler "patent-checker/internal/http"
	"patent-checker/internal/metrics"
	"patent-checker/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var migrateOnStart bool

// Assessment requests wait on sequential LLM calls, so latencies run well past the default buckets
var httpLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.ValidateAssessment(); err != nil {
		return err
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Initialize repository
	repository, err := openRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repository.Close()

	if migrateOnStart {
		if err := repository.Migrate(ctx); err != nil {
			return err
		}
	}

	m := metrics.NewManager(metrics.WithHistogramBuckets(httpLatencyBuckets))

	// Initialize LLM client
	llmClient, closeCache, err := newLLMClient(cfg, m)
	if err != nil {
		return err
	}
	defer closeCache()

	// Initialize services
	store, err := loadReference(cfg)
	if err != nil {
		return err
	}
	service := newAssessmentService(cfg, store, llmClient, repository, m)

	// Initialize HTTP router
	router := httphandler.NewRouter(httphandler.RouterConfig{
		RequestTimeout: cfg.Server.WriteTimeout,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			BurstSize:         cfg.RateLimit.Burst,
		},
		Metrics: m,
	})

	// Register routes
	router.RegisterAssessmentRoutes(httphandler.NewAssessmentHandler(service, repository))
	router.RegisterRootRoutes(httphandler.NewRootHandler(repository))
	router.RegisterHealthRoutes(repository)
	router.RegisterMetricsRoutes(m.Handler())

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Server stopped")
	return nil
}
