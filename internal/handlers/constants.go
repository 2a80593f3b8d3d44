package handlers

const (
	FlashCookieName = "flash"

	ErrChildNotFound       = "Child progress data not found"
	ErrAnalyticsFailed     = "Failed to load progress analytics"
	ErrReportFailed        = "Failed to generate progress report"
	ErrInvalidReportToken  = "Invalid or expired report link"
	ErrEmailDeliveryFailed = "Failed to send report email"
	ErrTooManyRequests     = "Too many report requests, try again shortly"
	ErrInternalServerError = "Internal server error"
)
