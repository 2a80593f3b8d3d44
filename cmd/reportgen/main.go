package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"speakwise/internal/config"
	"speakwise/internal/render"
	"speakwise/internal/service"
	"speakwise/internal/upstream"
)

// reportgen renders a child's progress report to a PDF file from the command
// line, using the same pipeline as the portal's export endpoint.
func main() {
	childID := flag.String("child", "", "Child ID to generate the report for (required)")
	output := flag.String("output", "", "Output file path (default: report_<child>_YYYYMMDD.pdf)")
	flag.Parse()

	if *childID == "" {
		fmt.Println("Error: -child flag is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	templates, err := template.ParseGlob(filepath.Join(cfg.TemplatesPath, "*.tmpl"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	apiClient := upstream.NewClient(cfg.UpstreamAPIURL, cfg.UpstreamAPIKey, cfg.UpstreamTimeout)
	progressService := service.NewProgressService(apiClient, logger)
	renderer := render.NewChromeRenderer(cfg.ChromePath, cfg.RenderTimeout, logger)

	// No audit store on the CLI path.
	reportService := service.NewReportService(progressService, renderer, templates, nil, cfg.Debug, logger)

	outputPath := *output
	if outputPath == "" {
		outputPath = fmt.Sprintf("report_%s_%s.pdf", *childID, time.Now().Format("20060102"))
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal().Err(err).Msg("failed to create output directory")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RenderTimeout+cfg.UpstreamTimeout)
	defer cancel()

	logger.Info().Str("child", *childID).Str("output", outputPath).Msg("generating report")

	pdf, err := reportService.GeneratePDF(ctx, *childID, "reportgen-cli")
	if err != nil {
		logger.Fatal().Err(err).Msg("report generation failed")
	}

	if err := os.WriteFile(outputPath, pdf, 0644); err != nil {
		logger.Fatal().Err(err).Msg("failed to write report file")
	}

	logger.Info().Int("bytes", len(pdf)).Msg("report written")
}
