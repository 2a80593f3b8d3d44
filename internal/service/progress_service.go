package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"speakwise/internal/analytics"
	"speakwise/internal/models"
	"speakwise/internal/upstream"
)

// ProgressAPI is the slice of the upstream client the resolver needs.
type ProgressAPI interface {
	GetChildProgress(ctx context.Context, childID string) (*upstream.ProgressRecord, error)
	GetChildSessions(ctx context.Context, childID string) ([]models.SessionSummary, error)
	GetChildAttempts(ctx context.Context, childID string, limit int) ([]models.AttemptRecord, error)
	GetChildProfile(ctx context.Context, childID string) (*upstream.ChildProfile, error)
}

// ChildAnalytics is the complete, request-scoped analytics snapshot for one
// child: everything the interactive view, the JSON API and the report
// renderer consume.
type ChildAnalytics struct {
	Child      models.Child
	Sessions   []models.SessionSummary
	Attempts   []models.AttemptRecord
	FinalWords []models.FinalWordEntry
	Stats      models.ProgressStats
	Chart      models.ChartData
}

// ProgressService resolves a child's analytics across the upstream data
// sources. The canonical progress record is the one source that must exist;
// the session and attempt listings are preferred when available, and their
// absence degrades silently to the canonical record's embedded data. The
// analytics view is therefore always renderable from the canonical record
// alone.
type ProgressService struct {
	api    ProgressAPI
	logger zerolog.Logger
}

// NewProgressService creates a progress service.
func NewProgressService(api ProgressAPI, logger zerolog.Logger) *ProgressService {
	return &ProgressService{
		api:    api,
		logger: logger.With().Str("service", "progress").Logger(),
	}
}

// GetChildAnalytics resolves and aggregates everything for one child. The
// only fatal failure is an absent canonical record, which surfaces as
// upstream.ErrNotFound; every optional source degrades to a fallback.
func (s *ProgressService) GetChildAnalytics(ctx context.Context, childID string) (*ChildAnalytics, error) {
	progress, err := s.api.GetChildProgress(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("child %s: %w", childID, err)
	}

	var (
		sessions []models.SessionSummary
		attempts []models.AttemptRecord
		profile  *upstream.ChildProfile
	)

	// The three enrichment fetches are independent; each guards its own
	// fallback, so no branch returns an error and none can cancel another.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions, _ = firstSuccessful(gctx, s.logger,
			Source[[]models.SessionSummary]{
				Name: "session listing",
				Fetch: func(ctx context.Context) ([]models.SessionSummary, error) {
					return s.api.GetChildSessions(ctx, childID)
				},
			},
			Source[[]models.SessionSummary]{
				Name: "embedded sessions",
				Fetch: func(context.Context) ([]models.SessionSummary, error) {
					return analytics.NormalizeSessions(progress.Sessions), nil
				},
			},
		)
		return nil
	})
	g.Go(func() error {
		attempts, _ = firstSuccessful(gctx, s.logger,
			Source[[]models.AttemptRecord]{
				Name: "attempt listing",
				Fetch: func(ctx context.Context) ([]models.AttemptRecord, error) {
					return s.api.GetChildAttempts(ctx, childID, analytics.DefaultAttemptLimit)
				},
			},
			Source[[]models.AttemptRecord]{
				Name: "flattened embedded attempts",
				Fetch: func(context.Context) ([]models.AttemptRecord, error) {
					return analytics.FlattenAttempts(progress.Sessions, analytics.DefaultAttemptLimit), nil
				},
			},
		)
		return nil
	})
	g.Go(func() error {
		p, err := s.api.GetChildProfile(gctx, childID)
		if err != nil {
			// Profile is purely auxiliary; the view renders with
			// placeholders.
			s.logger.Warn().Err(err).Str("child", childID).Msg("child profile unavailable")
			return nil
		}
		profile = p
		return nil
	})
	g.Wait()

	child := models.Child{ID: childID}
	switch {
	case profile != nil:
		child.Name, child.Age = profile.Name, profile.Age
	case progress.Child != nil:
		child.Name, child.Age = progress.Child.Name, progress.Child.Age
	}

	return &ChildAnalytics{
		Child:      child,
		Sessions:   sessions,
		Attempts:   attempts,
		FinalWords: analytics.ReduceFinalWords(progress.Sessions),
		Stats:      analytics.ComputeStats(sessions),
		Chart:      analytics.BuildChartData(sessions),
	}, nil
}
