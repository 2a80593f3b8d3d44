package analytics

import "speakwise/internal/models"

// ReduceFinalWords derives the "final performance" snapshot: one entry per
// distinct target observed in the most recent session, holding that target's
// chronologically last attempt. Attempts without a resolvable target are
// skipped. On equal timestamps the later-seen attempt wins. Entries are
// emitted in first-seen target order so output is deterministic.
func ReduceFinalWords(sessions []RawSession) []models.FinalWordEntry {
	if len(sessions) == 0 {
		return []models.FinalWordEntry{}
	}

	last := sessions[len(sessions)-1]
	if last == nil {
		return []models.FinalWordEntry{}
	}

	latest := make(map[string]models.AttemptRecord)
	var order []string
	for _, raw := range sessionAttempts(last) {
		attempt := parseAttempt(raw)
		if attempt.Target == "" {
			continue
		}
		current, seen := latest[attempt.Target]
		if !seen {
			order = append(order, attempt.Target)
			latest[attempt.Target] = attempt
			continue
		}
		if attemptEpoch(attempt) >= attemptEpoch(current) {
			latest[attempt.Target] = attempt
		}
	}

	out := make([]models.FinalWordEntry, 0, len(order))
	for _, target := range order {
		attempt := latest[target]
		out = append(out, models.FinalWordEntry{
			Target:         target,
			RecognizedText: attempt.RecognizedText,
			Score:          finalScore(attempt),
			AnalysisSource: attempt.AnalysisSource,
		})
	}
	return out
}

// finalScore prefers the pronunciation-specific score over the generic one.
func finalScore(a models.AttemptRecord) *float64 {
	if a.PronunciationScore != nil {
		return a.PronunciationScore
	}
	return a.Score
}
