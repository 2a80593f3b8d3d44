package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"

	"speakwise/internal/models"
	"speakwise/internal/render"
	"speakwise/internal/repository"
)

// reportRecentWindow is the session count for the recent-average figures.
const reportRecentWindow = 5

// reportTableRows caps the recent-session table in the printed report.
const reportTableRows = 8

// outputSnippetLimit bounds how much of an invalid render is quoted in debug
// failure messages.
const outputSnippetLimit = 180

// ReportPayload is everything bound into the printed progress report.
type ReportPayload struct {
	Child       models.Child
	GeneratedAt string
	Stats       models.ProgressStats
	Chart       models.ChartData

	BestSession  *models.SessionSummary
	WorstSession *models.SessionSummary

	FirstSessionDate string
	LastSessionDate  string

	RecentAverageScore int
	RecentSuccessRate  int

	RecentSessions []ReportSessionRow
}

// ReportSessionRow is one line of the recent-session table, newest first.
type ReportSessionRow struct {
	Date               string
	Duration           float64
	TotalAttempts      int
	SuccessfulAttempts int
	SuccessRate        int
	AverageScore       int
}

// ReportService builds and renders child progress reports. The renderer is an
// external heavyweight collaborator; the service only hands it finished HTML
// and validates what comes back.
type ReportService struct {
	progress  *ProgressService
	renderer  render.Renderer
	templates *template.Template
	exports   *repository.ExportRepository
	debug     bool
	logger    zerolog.Logger
}

// NewReportService creates a report service. exports may be nil when no audit
// store is configured.
func NewReportService(progress *ProgressService, renderer render.Renderer, templates *template.Template,
	exports *repository.ExportRepository, debug bool, logger zerolog.Logger) *ReportService {
	return &ReportService{
		progress:  progress,
		renderer:  renderer,
		templates: templates,
		exports:   exports,
		debug:     debug,
		logger:    logger.With().Str("service", "report").Logger(),
	}
}

// GeneratePDF resolves the child's analytics, renders the report and returns
// the PDF bytes. The output is validated against the PDF signature before it
// is declared a success; requestedBy is recorded in the export audit trail.
func (s *ReportService) GeneratePDF(ctx context.Context, childID, requestedBy string) ([]byte, error) {
	a, err := s.progress.GetChildAnalytics(ctx, childID)
	if err != nil {
		return nil, err
	}

	payload := BuildReportPayload(a)

	var html bytes.Buffer
	if err := s.templates.ExecuteTemplate(&html, "report.tmpl", payload); err != nil {
		return nil, fmt.Errorf("bind report template: %w", err)
	}

	pdf, err := s.renderer.Render(ctx, html.String(), render.ReportOptions())
	if err != nil {
		return nil, fmt.Errorf("render report for child %s: %w", childID, err)
	}

	if err := render.ValidatePDF(pdf); err != nil {
		if s.debug {
			snippet := pdf
			if len(snippet) > outputSnippetLimit {
				snippet = snippet[:outputSnippetLimit]
			}
			return nil, fmt.Errorf("%w (output began with %q)", err, snippet)
		}
		return nil, err
	}

	if s.exports != nil {
		if _, err := s.exports.Record(childID, requestedBy, int64(len(pdf))); err != nil {
			// The export itself succeeded; a broken audit trail is logged,
			// never surfaced.
			s.logger.Warn().Err(err).Str("child", childID).Msg("failed to record report export")
		}
	}

	s.logger.Info().Str("child", childID).Int("bytes", len(pdf)).Msg("report generated")
	return pdf, nil
}

// BuildReportPayload derives the report binding from an analytics snapshot.
func BuildReportPayload(a *ChildAnalytics) ReportPayload {
	payload := ReportPayload{
		Child:       a.Child,
		GeneratedAt: formatReportDate(timePtr(time.Now())),
		Stats:       a.Stats,
		Chart:       a.Chart,
	}

	sessions := a.Sessions
	if len(sessions) == 0 {
		return payload
	}

	best, worst := 0, 0
	for i, s := range sessions {
		// Strict comparisons keep the first session on ties.
		if s.AverageScore > sessions[best].AverageScore {
			best = i
		}
		if s.AverageScore < sessions[worst].AverageScore {
			worst = i
		}
	}
	payload.BestSession = &sessions[best]
	payload.WorstSession = &sessions[worst]

	payload.FirstSessionDate = formatReportDate(sessions[0].SessionDate)
	payload.LastSessionDate = formatReportDate(sessions[len(sessions)-1].SessionDate)

	recent := sessions
	if len(recent) > reportRecentWindow {
		recent = recent[len(recent)-reportRecentWindow:]
	}
	var scoreSum, rateSum float64
	for _, s := range recent {
		scoreSum += s.AverageScore
		rateSum += s.SuccessRate
	}
	payload.RecentAverageScore = roundPercent(scoreSum / float64(len(recent)))
	payload.RecentSuccessRate = roundPercent(rateSum / float64(len(recent)))

	rows := sessions
	if len(rows) > reportTableRows {
		rows = rows[len(rows)-reportTableRows:]
	}
	// Newest first.
	for i := len(rows) - 1; i >= 0; i-- {
		s := rows[i]
		payload.RecentSessions = append(payload.RecentSessions, ReportSessionRow{
			Date:               formatReportDate(s.SessionDate),
			Duration:           s.Duration,
			TotalAttempts:      s.TotalAttempts,
			SuccessfulAttempts: s.SuccessfulAttempts,
			SuccessRate:        roundPercent(s.SuccessRate),
			AverageScore:       roundPercent(s.AverageScore),
		})
	}

	return payload
}

// formatReportDate renders DD/MM/YYYY; a missing date renders empty rather
// than failing the report.
func formatReportDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func roundPercent(v float64) int {
	return int(v + 0.5)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
