package analytics

import (
	"fmt"
	"math"

	"speakwise/internal/models"
)

const (
	easyScoreThreshold   = 80
	mediumScoreThreshold = 50
	timelineWindow       = 20
)

// GeneralSkill is the single aggregate skill bucket. A multi-skill breakdown
// is planned upstream; until then every chart consumer can rely on this
// bucket being present and non-empty.
const GeneralSkill = "general"

// ComputeStats aggregates a normalized session list into whole-number
// statistics. Rates and scores are rounded half-up.
func ComputeStats(sessions []models.SessionSummary) models.ProgressStats {
	stats := models.ProgressStats{
		TotalSessions: len(sessions),
	}

	var scoreSum float64
	for _, s := range sessions {
		stats.TotalAttempts += s.TotalAttempts
		stats.SuccessfulAttempts += s.SuccessfulAttempts
		scoreSum += s.AverageScore
	}

	if stats.TotalAttempts > 0 {
		stats.SuccessRate = roundHalfUp(float64(stats.SuccessfulAttempts) / float64(stats.TotalAttempts) * 100)
	}
	if stats.TotalSessions > 0 {
		stats.AverageScore = roundHalfUp(scoreSum / float64(stats.TotalSessions))
	}

	stats.SkillsProgress = map[string]models.SkillBucket{
		GeneralSkill: {
			SessionsCount: stats.TotalSessions,
			AverageScore:  stats.AverageScore,
		},
	}
	return stats
}

// BuildChartData derives the chart-ready datasets: a timeline over the most
// recent sessions, the skill buckets, the success/failure ratio pair and the
// difficulty histogram.
func BuildChartData(sessions []models.SessionSummary) models.ChartData {
	stats := ComputeStats(sessions)

	chart := models.ChartData{
		Timeline: buildTimeline(sessions),
		Skills:   stats.SkillsProgress,
	}

	for _, s := range sessions {
		chart.SuccessRatio.Successful += s.SuccessfulAttempts
		chart.SuccessRatio.Failed += s.FailedAttempts

		switch {
		case s.AverageScore >= easyScoreThreshold:
			chart.Difficulty.Easy++
		case s.AverageScore >= mediumScoreThreshold:
			chart.Difficulty.Medium++
		default:
			chart.Difficulty.Hard++
		}
	}
	return chart
}

// buildTimeline maps the last 20 sessions to label/value points. Sessions
// with an unparseable date get an ordinal placeholder label keyed by their
// position in the full list.
func buildTimeline(sessions []models.SessionSummary) []models.TimelinePoint {
	offset := 0
	if len(sessions) > timelineWindow {
		offset = len(sessions) - timelineWindow
	}

	window := sessions[offset:]
	points := make([]models.TimelinePoint, 0, len(window))
	for i, s := range window {
		label := fmt.Sprintf("session %d", offset+i+1)
		if s.SessionDate != nil {
			label = s.SessionDate.Format("Jan 2")
		}
		points = append(points, models.TimelinePoint{
			Label: label,
			Value: roundHalfUp(s.AverageScore),
		})
	}
	return points
}

// roundHalfUp rounds to the nearest integer with .5 going up, matching how
// the upstream platform presents percentages.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
