package main

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"speakwise/internal/config"
	"speakwise/internal/database"
	"speakwise/internal/handlers"
	"speakwise/internal/render"
	"speakwise/internal/repository"
	"speakwise/internal/security"
	"speakwise/internal/service"
	"speakwise/internal/upstream"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg.Debug)

	// Initialize export audit database (supports sqlite, postgres, mysql)
	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	logger.Info().Str("type", cfg.DatabaseType).Msg("database connection established")

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load templates")
	}

	// Initialize upstream client and repositories
	apiClient := upstream.NewClient(cfg.UpstreamAPIURL, cfg.UpstreamAPIKey, cfg.UpstreamTimeout)
	exportRepo := repository.NewExportRepository(db)

	// Initialize services
	progressService := service.NewProgressService(apiClient, logger)
	renderer := render.NewChromeRenderer(cfg.ChromePath, cfg.RenderTimeout, logger)
	reportService := service.NewReportService(progressService, renderer, templates, exportRepo, cfg.Debug, logger)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize email service")
	}
	tokenIssuer := security.NewReportTokenIssuer(cfg.ReportTokenSecret, cfg.ReportTokenTTL)
	reportLimiter := security.NewRateLimiter(10, time.Minute)

	// Initialize handlers
	progressHandler := handlers.NewProgressHandler(progressService, reportService, emailService,
		tokenIssuer, exportRepo, templates, logger)

	// Setup routes
	mux := http.NewServeMux()

	// Specialist portal views
	mux.HandleFunc("GET /specialist/children", progressHandler.ShowChildrenList)
	mux.HandleFunc("GET /specialist/children/{id}/progress", progressHandler.ShowChildProgress)

	// Analytics and report API
	mux.HandleFunc("GET /api/children/{id}/analytics", progressHandler.GetChildAnalytics)
	mux.HandleFunc("GET /api/children/{id}/report", handlers.RateLimit(reportLimiter, logger, progressHandler.ExportChildReport))
	mux.HandleFunc("POST /api/children/{id}/report/email", handlers.RateLimit(reportLimiter, logger, progressHandler.EmailChildReport))
	mux.HandleFunc("GET /api/reports/download", handlers.RateLimit(reportLimiter, logger, progressHandler.DownloadReport))
	mux.HandleFunc("GET /api/reports/recent", progressHandler.RecentExports)

	// Wrap with logging middleware
	handler := handlers.Logging(logger, mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // report rendering can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newLogger builds the root logger. Debug mode switches to human-readable
// console output and lowers the level.
func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if debug {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	pattern := filepath.Join(templatesPath, "*.tmpl")

	tmpl, err := template.ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}
