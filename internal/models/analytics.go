package models

import "time"

// SessionSummary is the canonical shape of one completed practice session
// after normalization. Counts are always consistent: FailedAttempts is either
// supplied by the upstream source or derived as TotalAttempts minus
// SuccessfulAttempts, and SuccessRate is recomputed from the raw counts.
type SessionSummary struct {
	SessionDate        *time.Time `json:"sessionDate"`
	Duration           float64    `json:"duration"`
	TotalAttempts      int        `json:"totalAttempts"`
	SuccessfulAttempts int        `json:"successfulAttempts"`
	FailedAttempts     int        `json:"failedAttempts"`
	AverageScore       float64    `json:"averageScore"`
	SuccessRate        float64    `json:"successRate"`
}

// AttemptRecord is a single scored trial against a target word, letter or
// vowel, annotated with its parent session's date. Score fields are pointers
// because upstream sources routinely omit them.
type AttemptRecord struct {
	SessionDate        *time.Time `json:"sessionDate"`
	Timestamp          *time.Time `json:"timestamp"`
	Target             string     `json:"target"`
	Success            bool       `json:"success"`
	Score              *float64   `json:"score,omitempty"`
	PronunciationScore *float64   `json:"pronunciationScore,omitempty"`
	AccuracyScore      *float64   `json:"accuracyScore,omitempty"`
	FluencyScore       *float64   `json:"fluencyScore,omitempty"`
	CompletenessScore  *float64   `json:"completenessScore,omitempty"`
	RecognizedText     string     `json:"recognizedText,omitempty"`
	ReferenceText      string     `json:"referenceText,omitempty"`
	AnalysisSource     string     `json:"analysisSource,omitempty"`
}

// FinalWordEntry is the chronologically last attempt per distinct target in
// the most recent session. Score prefers the pronunciation-specific score
// over the generic one; nil when neither is numeric.
type FinalWordEntry struct {
	Target         string   `json:"target"`
	RecognizedText string   `json:"recognizedText,omitempty"`
	Score          *float64 `json:"score"`
	AnalysisSource string   `json:"analysisSource,omitempty"`
}

// TimelinePoint is one label/value pair in the progress timeline chart.
type TimelinePoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// SkillBucket aggregates sessions under a named skill.
type SkillBucket struct {
	SessionsCount int `json:"sessionsCount"`
	AverageScore  int `json:"averageScore"`
}

// DifficultyBuckets counts sessions by average-score band.
type DifficultyBuckets struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// SuccessRatio is the total successful/failed attempt pair for ratio charts.
type SuccessRatio struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// ChartData holds the chart-ready datasets derived from a session list.
// Computed fresh per request, never mutated afterwards.
type ChartData struct {
	Timeline     []TimelinePoint        `json:"timeline"`
	Skills       map[string]SkillBucket `json:"skills"`
	SuccessRatio SuccessRatio           `json:"successRatio"`
	Difficulty   DifficultyBuckets      `json:"difficulty"`
}

// ProgressStats are the aggregate statistics for a child's session list.
// Percentages and scores are rounded half-up to whole numbers.
type ProgressStats struct {
	TotalSessions      int                    `json:"totalSessions"`
	TotalAttempts      int                    `json:"totalAttempts"`
	SuccessfulAttempts int                    `json:"successfulAttempts"`
	SuccessRate        int                    `json:"successRate"`
	AverageScore       int                    `json:"averageScore"`
	SkillsProgress     map[string]SkillBucket `json:"skillsProgress"`
}
