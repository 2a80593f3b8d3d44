package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"speakwise/internal/repository"
	"speakwise/internal/security"
	"speakwise/internal/service"
)

// ProgressHandler serves the child progress surfaces: the interactive view,
// the JSON analytics API and the PDF report export.
type ProgressHandler struct {
	progress  *service.ProgressService
	reports   *service.ReportService
	email     *service.EmailService
	tokens    *security.ReportTokenIssuer
	exports   *repository.ExportRepository
	templates *template.Template
	logger    zerolog.Logger
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(progress *service.ProgressService, reports *service.ReportService,
	email *service.EmailService, tokens *security.ReportTokenIssuer,
	exports *repository.ExportRepository, templates *template.Template, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progress:  progress,
		reports:   reports,
		email:     email,
		tokens:    tokens,
		exports:   exports,
		templates: templates,
		logger:    logger.With().Str("handler", "progress").Logger(),
	}
}

// ShowChildrenList displays the children listing page. It is also the
// redirect target when a progress view cannot be loaded.
func (h *ProgressHandler) ShowChildrenList(w http.ResponseWriter, r *http.Request) {
	data := ChildrenViewData{
		Title: "Children - SpeakWise",
		Flash: popFlash(w, r),
	}
	if err := h.templates.ExecuteTemplate(w, "children.tmpl", data); err != nil {
		h.logger.Error().Err(err).Msg("failed to render children template")
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

// ShowChildProgress displays the interactive progress view for one child.
// Failures redirect back to the listing with a flash notice instead of
// rendering an error page.
func (h *ProgressHandler) ShowChildProgress(w http.ResponseWriter, r *http.Request) {
	childID := r.PathValue("id")

	analytics, err := h.progress.GetChildAnalytics(r.Context(), childID)
	if err != nil {
		h.logger.Error().Err(err).Str("child", childID).Msg("failed to load progress view")
		setFlash(w, ErrChildNotFound)
		http.Redirect(w, r, "/specialist/children", http.StatusSeeOther)
		return
	}

	if err := h.templates.ExecuteTemplate(w, "progress.tmpl", newProgressViewData(analytics)); err != nil {
		h.logger.Error().Err(err).Msg("failed to render progress template")
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

// GetChildAnalytics serves the JSON analytics payload.
func (h *ProgressHandler) GetChildAnalytics(w http.ResponseWriter, r *http.Request) {
	childID := r.PathValue("id")

	analytics, err := h.progress.GetChildAnalytics(r.Context(), childID)
	if err != nil {
		respondWithJSONError(w, h.logger, ErrAnalyticsFailed, err)
		return
	}

	respondWithJSON(w, h.logger, analyticsResponse{
		Success:   true,
		Sessions:  analytics.Sessions,
		Stats:     analytics.Stats,
		ChartData: analytics.Chart,
	})
}

// ExportChildReport generates and streams the PDF progress report.
func (h *ProgressHandler) ExportChildReport(w http.ResponseWriter, r *http.Request) {
	childID := r.PathValue("id")

	pdf, err := h.reports.GeneratePDF(r.Context(), childID, requesterOf(r))
	if err != nil {
		respondWithJSONError(w, h.logger, ErrReportFailed, err)
		return
	}

	writePDF(w, childID, pdf)
}

// EmailChildReport sends a signed report download link to the given address.
func (h *ProgressHandler) EmailChildReport(w http.ResponseWriter, r *http.Request) {
	childID := r.PathValue("id")

	toEmail := r.FormValue("email")
	if toEmail == "" {
		respondWithJSONError(w, h.logger, ErrEmailDeliveryFailed, fmt.Errorf("missing email address"))
		return
	}

	// Resolve the child first so a dead link is never emailed.
	analytics, err := h.progress.GetChildAnalytics(r.Context(), childID)
	if err != nil {
		respondWithJSONError(w, h.logger, ErrChildNotFound, err)
		return
	}

	token, err := h.tokens.Issue(childID)
	if err != nil {
		respondWithJSONError(w, h.logger, ErrEmailDeliveryFailed, err)
		return
	}

	if err := h.email.SendReportLinkEmail(r.Context(), toEmail, analytics.Child.Name, token); err != nil {
		respondWithJSONError(w, h.logger, ErrEmailDeliveryFailed, err)
		return
	}

	respondWithJSON(w, h.logger, emailReportResponse{Success: true, Message: "Report link sent"})
}

// DownloadReport serves a report from an emailed signed link.
func (h *ProgressHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	childID, err := h.tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		respondWithJSONError(w, h.logger, ErrInvalidReportToken, err)
		return
	}

	pdf, err := h.reports.GeneratePDF(r.Context(), childID, "emailed-link")
	if err != nil {
		respondWithJSONError(w, h.logger, ErrReportFailed, err)
		return
	}

	writePDF(w, childID, pdf)
}

// RecentExports lists the latest report export audit rows.
func (h *ProgressHandler) RecentExports(w http.ResponseWriter, r *http.Request) {
	exports, err := h.exports.Recent(20)
	if err != nil {
		respondWithJSONError(w, h.logger, ErrInternalServerError, err)
		return
	}

	respondWithJSON(w, h.logger, recentExportsResponse{Success: true, Exports: exports})
}

// writePDF streams a validated report with its exact byte length declared.
func writePDF(w http.ResponseWriter, childID string, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="progress-report-%s.pdf"`, childID))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

// requesterOf identifies who asked for an export, for the audit trail. The
// gateway in front of the portal sets the operator header; direct calls fall
// back to the client address.
func requesterOf(r *http.Request) string {
	if operator := r.Header.Get("X-Operator"); operator != "" {
		return operator
	}
	return r.RemoteAddr
}
