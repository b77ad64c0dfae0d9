package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"samarth-platform/internal/config"
	"samarth-platform/internal/handlers"
	"samarth-platform/internal/nlsql"
	"samarth-platform/internal/repository"
	"samarth-platform/internal/services"
	"samarth-platform/pkg/cache"
	"samarth-platform/pkg/database"
	"samarth-platform/pkg/llm"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("samarth-web", version, logging.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.Output == "stderr" {
		logger.SetOutput(os.Stderr)
	}

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting Samarth web dashboard", logging.Fields{
		"version":       version,
		"server_host":   cfg.Server.Host,
		"server_port":   cfg.Server.Port,
		"processed_dir": cfg.Data.ProcessedDir,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("samarth", prometheus.DefaultRegisterer)

	// Initialize analytical engine
	db, err := database.NewDuckDB(&database.Config{
		Path:        cfg.Database.Path,
		Threads:     cfg.Database.Threads,
		MemoryLimit: cfg.Database.MemoryLimit,
	}, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to open analytical engine", logging.Fields{}, err)
	}
	defer db.Close()

	repo := repository.NewAnalyticsRepository(db, logger, metricsCollector)
	if err := repo.LoadSnapshots(ctx, cfg.CropSnapshotPath(), cfg.RainfallSnapshotPath()); err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to load snapshots (run samarth clean first)", logging.Fields{
			"crop":     cfg.CropSnapshotPath(),
			"rainfall": cfg.RainfallSnapshotPath(),
		}, err)
	}

	// Initialize services
	generator := llm.NewOllamaClient(llm.Config{
		Endpoint:      cfg.Model.Endpoint,
		Model:         cfg.Model.Name,
		Temperature:   cfg.Model.Temperature,
		ContextWindow: cfg.Model.ContextWindow,
		Timeout:       cfg.Model.Timeout.Duration,
	})
	logger.Info(ctx, "[STARTUP] Model client configured", logging.Fields{
		"model":    generator.Model(),
		"endpoint": generator.Endpoint(),
	})
	memo := cache.NewTTLCache[string](cfg.Cache.TTL.Duration)
	qaService := services.NewQAService(repo, generator, nlsql.Interactive, cfg.Data.ProcessedDir,
		logger, metricsCollector, services.WithCache(memo))

	// Initialize handlers
	catalogService := services.NewCatalogService(repo, logger, metricsCollector)
	qaHandler := handlers.NewQAHandler(qaService, catalogService, repo, logger, metricsCollector)

	// Setup router
	router := mux.NewRouter()

	// Register routes
	qaHandler.RegisterRoutes(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	// Start server in goroutine
	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	// In-flight questions may be waiting on the model.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
