// Package analytics contains the pure data transformations behind the child
// progress pipeline: session normalization, attempt flattening, final-word
// reduction and aggregate statistics. Every function is total over its input;
// malformed upstream data is coerced to safe defaults, never raised as an
// error.
package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"speakwise/internal/models"
)

// RawSession is a session record as delivered by an upstream source, before
// field reconciliation. Keys may appear in camelCase or snake_case.
type RawSession = map[string]any

// maxNormalizedSessions caps normalizer output to the most recent entries in
// arrival order; older upstream entries are dropped first.
const maxNormalizedSessions = 30

// NormalizeSessions converts loosely-typed session records into canonical
// summaries. Numeric fields are coerced; missing or non-numeric values default
// to zero. FailedAttempts is taken from the source when supplied, otherwise
// derived, and SuccessRate is always recomputed from the raw counts.
func NormalizeSessions(raw []RawSession) []models.SessionSummary {
	if len(raw) > maxNormalizedSessions {
		raw = raw[len(raw)-maxNormalizedSessions:]
	}

	out := make([]models.SessionSummary, 0, len(raw))
	for _, rec := range raw {
		if rec == nil {
			out = append(out, models.SessionSummary{})
			continue
		}

		s := models.SessionSummary{
			SessionDate:        timeField(rec, "sessionDate", "session_date", "createdAt", "created_at", "date"),
			Duration:           math.Max(0, numField(rec, "duration", "session_duration")),
			TotalAttempts:      int(math.Max(0, numField(rec, "totalAttempts", "total_attempts"))),
			SuccessfulAttempts: int(math.Max(0, numField(rec, "successfulAttempts", "successful_attempts"))),
		}

		if v, ok := pick(rec, "failedAttempts", "failed_attempts"); ok {
			if n, ok := toNumber(v); ok {
				s.FailedAttempts = int(math.Max(0, n))
			} else {
				s.FailedAttempts = derivedFailed(s)
			}
		} else {
			s.FailedAttempts = derivedFailed(s)
		}

		s.AverageScore = clampScore(numField(rec, "averageScore", "average_score"))
		if s.TotalAttempts > 0 {
			s.SuccessRate = float64(s.SuccessfulAttempts) / float64(s.TotalAttempts) * 100
		}

		out = append(out, s)
	}
	return out
}

func derivedFailed(s models.SessionSummary) int {
	if d := s.TotalAttempts - s.SuccessfulAttempts; d > 0 {
		return d
	}
	return 0
}

func clampScore(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// pick returns the first present key from the record, reconciling the two
// naming conventions upstream producers use. This is the only place field
// naming variability is handled; downstream code sees canonical structs.
func pick(rec map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func numField(rec map[string]any, keys ...string) float64 {
	v, ok := pick(rec, keys...)
	if !ok {
		return 0
	}
	n, ok := toNumber(v)
	if !ok {
		return 0
	}
	return n
}

// toNumber coerces the JSON scalar shapes upstream sources produce. NaN and
// infinities count as non-numeric.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func timeField(rec map[string]any, keys ...string) *time.Time {
	v, ok := pick(rec, keys...)
	if !ok {
		return nil
	}
	return toTime(v)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toTime parses the timestamp shapes seen across upstream producers: RFC3339
// strings with or without zone, bare dates, and unix epochs in seconds or
// milliseconds.
func toTime(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return &parsed
			}
		}
		return nil
	default:
		n, ok := toNumber(v)
		if !ok || n <= 0 {
			return nil
		}
		// Epochs past the year 33658 in seconds are millisecond epochs.
		var parsed time.Time
		if n > 1e12 {
			parsed = time.UnixMilli(int64(n)).UTC()
		} else {
			parsed = time.Unix(int64(n), 0).UTC()
		}
		return &parsed
	}
}
