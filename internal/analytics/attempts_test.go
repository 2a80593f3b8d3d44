package analytics

import (
	"sort"
	"testing"
)

func sessionWithAttempts(date string, attempts ...RawAttempt) RawSession {
	list := make([]any, len(attempts))
	for i, a := range attempts {
		list[i] = map[string]any(a)
	}
	return RawSession{"sessionDate": date, "attempts": list}
}

func TestClampAttemptLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, 50},
		{"negative clamped to one", -3, 1},
		{"in range untouched", 75, 75},
		{"above max clamped", 5000, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampAttemptLimit(tt.limit); got != tt.want {
				t.Errorf("ClampAttemptLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestFlattenAttemptsSortsNewestFirst(t *testing.T) {
	sessions := []RawSession{
		sessionWithAttempts("2026-01-01",
			RawAttempt{"word": "cat", "timestamp": "2026-01-01T09:00:00Z"},
			RawAttempt{"word": "dog", "timestamp": "2026-01-01T11:00:00Z"},
		),
		sessionWithAttempts("2026-01-02",
			RawAttempt{"word": "bird", "timestamp": "2026-01-02T10:00:00Z"},
			RawAttempt{"word": "fish"}, // no timestamp, sorts last
		),
	}

	out := FlattenAttempts(sessions, 0)

	if len(out) != 4 {
		t.Fatalf("expected 4 attempts, got %d", len(out))
	}
	wantOrder := []string{"bird", "dog", "cat", "fish"}
	for i, want := range wantOrder {
		if out[i].Target != want {
			t.Errorf("position %d: got %q, want %q", i, out[i].Target, want)
		}
	}
}

func TestFlattenAttemptsOrderingIsIdempotent(t *testing.T) {
	sessions := []RawSession{
		sessionWithAttempts("2026-01-01",
			RawAttempt{"word": "a", "timestamp": "2026-01-01T09:00:00Z"},
			RawAttempt{"word": "b"},
			RawAttempt{"word": "c", "timestamp": "2026-01-01T12:00:00Z"},
			RawAttempt{"word": "d", "timestamp": "bogus"},
		),
	}

	out := FlattenAttempts(sessions, 0)
	resorted := make([]string, len(out))
	for i, a := range out {
		resorted[i] = a.Target
	}

	if !sort.SliceIsSorted(out, func(i, j int) bool {
		return attemptEpoch(out[i]) > attemptEpoch(out[j])
	}) {
		t.Errorf("flattened output is not already sorted: %v", resorted)
	}
}

func TestFlattenAttemptsCapsToLimit(t *testing.T) {
	attempts := make([]RawAttempt, 10)
	for i := range attempts {
		attempts[i] = RawAttempt{"word": "w"}
	}
	sessions := []RawSession{sessionWithAttempts("2026-01-01", attempts...)}

	if got := FlattenAttempts(sessions, 3); len(got) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(got))
	}
	if got := FlattenAttempts(sessions, 0); len(got) != 10 {
		t.Errorf("expected all 10 attempts under default limit, got %d", len(got))
	}
}

func TestFlattenAttemptsKeepsTargetlessAttempts(t *testing.T) {
	sessions := []RawSession{
		sessionWithAttempts("2026-01-01",
			RawAttempt{"recognizedText": "something", "score": 50.0},
		),
	}

	out := FlattenAttempts(sessions, 0)
	if len(out) != 1 {
		t.Fatalf("expected targetless attempt retained, got %d attempts", len(out))
	}
	if out[0].Target != "" {
		t.Errorf("expected empty target, got %q", out[0].Target)
	}
}

func TestFlattenAttemptsAnnotatesSessionDate(t *testing.T) {
	sessions := []RawSession{
		sessionWithAttempts("2026-02-03T00:00:00Z", RawAttempt{"word": "sun"}),
	}

	out := FlattenAttempts(sessions, 0)
	if len(out) != 1 || out[0].SessionDate == nil {
		t.Fatal("expected attempt annotated with parent session date")
	}
	if got := out[0].SessionDate.Format("2006-01-02"); got != "2026-02-03" {
		t.Errorf("expected session date 2026-02-03, got %s", got)
	}
}

func TestParseAttemptFields(t *testing.T) {
	rec := parseAttempt(RawAttempt{
		"letter":              "b",
		"is_correct":          true,
		"pronunciation_score": 88.5,
		"recognized_text":     "ba",
		"reference_text":      "b",
		"analysis_source":     "azure",
	})

	if rec.Target != "b" {
		t.Errorf("expected letter used as target, got %q", rec.Target)
	}
	if !rec.Success {
		t.Error("expected snake_case correctness flag honored")
	}
	if rec.PronunciationScore == nil || *rec.PronunciationScore != 88.5 {
		t.Errorf("expected pronunciation score 88.5, got %v", rec.PronunciationScore)
	}
	if rec.RecognizedText != "ba" || rec.ReferenceText != "b" || rec.AnalysisSource != "azure" {
		t.Errorf("text fields not reconciled: %+v", rec)
	}
}

func TestAttemptTargetPrecedence(t *testing.T) {
	tests := []struct {
		name string
		raw  RawAttempt
		want string
	}{
		{"word wins over letter", RawAttempt{"word": "house", "letter": "h"}, "house"},
		{"letter wins over vowel", RawAttempt{"letter": "m", "vowel": "a"}, "m"},
		{"vowel alone", RawAttempt{"vowel": "o"}, "o"},
		{"empty word falls through", RawAttempt{"word": "", "letter": "k"}, "k"},
		{"nothing resolvable", RawAttempt{"score": 10.0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := attemptTarget(tt.raw); got != tt.want {
				t.Errorf("attemptTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}
