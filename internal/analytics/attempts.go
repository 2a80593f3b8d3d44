package analytics

import (
	"sort"

	"speakwise/internal/models"
)

// RawAttempt is an attempt record as delivered by an upstream source.
type RawAttempt = map[string]any

const (
	// DefaultAttemptLimit is used when the caller supplies no limit.
	DefaultAttemptLimit = 50
	minAttemptLimit     = 1
	maxAttemptLimit     = 200
)

// ClampAttemptLimit normalizes a caller-supplied attempt limit. Zero means
// "use the default"; anything else is clamped to [1, 200].
func ClampAttemptLimit(limit int) int {
	if limit == 0 {
		return DefaultAttemptLimit
	}
	if limit < minAttemptLimit {
		return minAttemptLimit
	}
	if limit > maxAttemptLimit {
		return maxAttemptLimit
	}
	return limit
}

// FlattenAttempts extracts every nested attempt from the session list,
// annotates it with its parent session's date, and returns a globally
// time-sorted slice, most recent first. Attempts with missing or invalid
// timestamps sort last. The result is capped to the clamped limit.
func FlattenAttempts(sessions []RawSession, limit int) []models.AttemptRecord {
	limit = ClampAttemptLimit(limit)

	var out []models.AttemptRecord
	for _, session := range sessions {
		if session == nil {
			continue
		}
		sessionDate := timeField(session, "sessionDate", "session_date", "createdAt", "created_at", "date")
		for _, attempt := range sessionAttempts(session) {
			rec := parseAttempt(attempt)
			rec.SessionDate = sessionDate
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return attemptEpoch(out[i]) > attemptEpoch(out[j])
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// sessionAttempts pulls the nested attempt objects out of one session record,
// tolerating both decoded-JSON shapes.
func sessionAttempts(session RawSession) []RawAttempt {
	v, ok := pick(session, "attempts", "wordAttempts", "word_attempts")
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []RawAttempt:
		return list
	case []any:
		out := make([]RawAttempt, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func parseAttempt(raw RawAttempt) models.AttemptRecord {
	return models.AttemptRecord{
		Timestamp:          timeField(raw, "timestamp", "createdAt", "created_at", "time"),
		Target:             attemptTarget(raw),
		Success:            boolField(raw, "success", "isCorrect", "is_correct", "correct"),
		Score:              numPtrField(raw, "score"),
		PronunciationScore: numPtrField(raw, "pronunciationScore", "pronunciation_score"),
		AccuracyScore:      numPtrField(raw, "accuracyScore", "accuracy_score"),
		FluencyScore:       numPtrField(raw, "fluencyScore", "fluency_score"),
		CompletenessScore:  numPtrField(raw, "completenessScore", "completeness_score"),
		RecognizedText:     stringField(raw, "recognizedText", "recognized_text"),
		ReferenceText:      stringField(raw, "referenceText", "reference_text"),
		AnalysisSource:     stringField(raw, "analysisSource", "analysis_source", "source"),
	}
}

// attemptTarget resolves the practiced target: first non-empty of the word,
// letter and vowel fields. Empty means the attempt cannot participate in
// final-word reduction, though it stays in the flattened list.
func attemptTarget(raw RawAttempt) string {
	for _, keys := range [][]string{
		{"word"},
		{"letter"},
		{"vowel"},
	} {
		if s := stringField(raw, keys...); s != "" {
			return s
		}
	}
	return ""
}

// attemptEpoch is the sort key: unix milliseconds, with absent or invalid
// timestamps treated as epoch zero so they sort last.
func attemptEpoch(a models.AttemptRecord) int64 {
	if a.Timestamp == nil {
		return 0
	}
	return a.Timestamp.UnixMilli()
}

func stringField(rec map[string]any, keys ...string) string {
	v, ok := pick(rec, keys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func boolField(rec map[string]any, keys ...string) bool {
	v, ok := pick(rec, keys...)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true" || b == "1"
	default:
		n, ok := toNumber(v)
		return ok && n != 0
	}
}

func numPtrField(rec map[string]any, keys ...string) *float64 {
	v, ok := pick(rec, keys...)
	if !ok {
		return nil
	}
	n, ok := toNumber(v)
	if !ok {
		return nil
	}
	return &n
}
