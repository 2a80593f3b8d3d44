package handlers

import (
	"speakwise/internal/models"
	"speakwise/internal/service"
)

type ChildrenViewData struct {
	Title string
	Flash string
}

type ProgressViewData struct {
	Title      string
	Child      models.Child
	Sessions   []models.SessionSummary
	Attempts   []models.AttemptRecord
	FinalWords []models.FinalWordEntry
	Stats      models.ProgressStats
	Chart      models.ChartData
}

func newProgressViewData(a *service.ChildAnalytics) ProgressViewData {
	title := "Progress - SpeakWise"
	if a.Child.Name != "" {
		title = a.Child.Name + " - Progress - SpeakWise"
	}
	return ProgressViewData{
		Title:      title,
		Child:      a.Child,
		Sessions:   a.Sessions,
		Attempts:   a.Attempts,
		FinalWords: a.FinalWords,
		Stats:      a.Stats,
		Chart:      a.Chart,
	}
}

// analyticsResponse is the JSON analytics payload.
type analyticsResponse struct {
	Success   bool                     `json:"success"`
	Sessions  []models.SessionSummary  `json:"sessions"`
	Stats     models.ProgressStats     `json:"stats"`
	ChartData models.ChartData         `json:"chartData"`
}

type emailReportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type recentExportsResponse struct {
	Success bool                  `json:"success"`
	Exports []models.ReportExport `json:"exports"`
}
