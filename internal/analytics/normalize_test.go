package analytics

import (
	"fmt"
	"testing"
	"time"
)

func TestNormalizeSessionsCountsStayConsistent(t *testing.T) {
	tests := []struct {
		name           string
		session        RawSession
		wantTotal      int
		wantSuccessful int
		wantFailed     int
	}{
		{
			name:           "failed derived from counts",
			session:        RawSession{"totalAttempts": 10.0, "successfulAttempts": 7.0},
			wantTotal:      10,
			wantSuccessful: 7,
			wantFailed:     3,
		},
		{
			name:           "failed supplied by upstream",
			session:        RawSession{"totalAttempts": 10.0, "successfulAttempts": 7.0, "failedAttempts": 5.0},
			wantTotal:      10,
			wantSuccessful: 7,
			wantFailed:     5,
		},
		{
			name:           "snake_case keys reconciled",
			session:        RawSession{"total_attempts": 8.0, "successful_attempts": 2.0},
			wantTotal:      8,
			wantSuccessful: 2,
			wantFailed:     6,
		},
		{
			name:           "successful exceeding total never goes negative",
			session:        RawSession{"totalAttempts": 3.0, "successfulAttempts": 5.0},
			wantTotal:      3,
			wantSuccessful: 5,
			wantFailed:     0,
		},
		{
			name:           "string numbers coerced",
			session:        RawSession{"totalAttempts": "12", "successfulAttempts": "9"},
			wantTotal:      12,
			wantSuccessful: 9,
			wantFailed:     3,
		},
		{
			name:           "garbage defaults to zero",
			session:        RawSession{"totalAttempts": "lots", "successfulAttempts": map[string]any{}},
			wantTotal:      0,
			wantSuccessful: 0,
			wantFailed:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NormalizeSessions([]RawSession{tt.session})
			if len(out) != 1 {
				t.Fatalf("expected 1 session, got %d", len(out))
			}
			s := out[0]
			if s.TotalAttempts != tt.wantTotal || s.SuccessfulAttempts != tt.wantSuccessful || s.FailedAttempts != tt.wantFailed {
				t.Fatalf("got total=%d successful=%d failed=%d, want %d/%d/%d",
					s.TotalAttempts, s.SuccessfulAttempts, s.FailedAttempts,
					tt.wantTotal, tt.wantSuccessful, tt.wantFailed)
			}
		})
	}
}

func TestNormalizeSessionsRecomputesSuccessRate(t *testing.T) {
	out := NormalizeSessions([]RawSession{
		{"totalAttempts": 10.0, "successfulAttempts": 3.0, "successRate": 99.0},
		{"totalAttempts": 0.0, "successfulAttempts": 0.0, "successRate": 42.0},
	})

	if out[0].SuccessRate != 30 {
		t.Errorf("expected success rate recomputed to 30, got %v", out[0].SuccessRate)
	}
	if out[1].SuccessRate != 0 {
		t.Errorf("expected success rate 0 for zero attempts, got %v", out[1].SuccessRate)
	}
	for i, s := range out {
		if s.SuccessRate < 0 || s.SuccessRate > 100 {
			t.Errorf("session %d: success rate %v outside [0,100]", i, s.SuccessRate)
		}
	}
}

func TestNormalizeSessionsParsesDates(t *testing.T) {
	out := NormalizeSessions([]RawSession{
		{"sessionDate": "2026-03-14T10:30:00Z"},
		{"session_date": "2026-03-15"},
		{"createdAt": "not a date"},
		{},
	})

	if out[0].SessionDate == nil || !out[0].SessionDate.Equal(time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("expected RFC3339 date parsed, got %v", out[0].SessionDate)
	}
	if out[1].SessionDate == nil {
		t.Error("expected bare date parsed")
	}
	if out[2].SessionDate != nil {
		t.Errorf("expected unparseable date to stay nil, got %v", out[2].SessionDate)
	}
	if out[3].SessionDate != nil {
		t.Error("expected missing date to stay nil")
	}
}

func TestNormalizeSessionsKeepsLastThirty(t *testing.T) {
	raw := make([]RawSession, 45)
	for i := range raw {
		raw[i] = RawSession{"averageScore": float64(i)}
	}

	out := NormalizeSessions(raw)

	if len(out) != 30 {
		t.Fatalf("expected 30 sessions, got %d", len(out))
	}
	// Oldest entries are dropped, so the first kept one is input index 15.
	if out[0].AverageScore != 15 {
		t.Errorf("expected first kept session to have score 15, got %v", out[0].AverageScore)
	}
	if out[29].AverageScore != 44 {
		t.Errorf("expected last kept session to have score 44, got %v", out[29].AverageScore)
	}
}

func TestNormalizeSessionsIsTotal(t *testing.T) {
	if got := NormalizeSessions(nil); len(got) != 0 {
		t.Errorf("expected empty output for nil input, got %d entries", len(got))
	}
	if got := NormalizeSessions([]RawSession{nil}); len(got) != 1 {
		t.Errorf("expected nil session coerced to zero summary, got %d entries", len(got))
	}
}

func TestNormalizeSessionsClampsScores(t *testing.T) {
	out := NormalizeSessions([]RawSession{
		{"averageScore": 150.0},
		{"averageScore": -20.0},
		{"duration": -5.0},
	})
	if out[0].AverageScore != 100 {
		t.Errorf("expected score clamped to 100, got %v", out[0].AverageScore)
	}
	if out[1].AverageScore != 0 {
		t.Errorf("expected score clamped to 0, got %v", out[1].AverageScore)
	}
	if out[2].Duration != 0 {
		t.Errorf("expected negative duration clamped to 0, got %v", out[2].Duration)
	}
}

func TestToNumberCoercions(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{12.5, 12.5, true},
		{7, 7, true},
		{"42", 42, true},
		{" 3.5 ", 3.5, true},
		{"", 0, false},
		{"twelve", 0, false},
		{true, 1, true},
		{nil, 0, false},
		{[]any{1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.in), func(t *testing.T) {
			got, ok := toNumber(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("toNumber(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
