package handlers

import (
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// apiFailure is the uniform failure envelope for the JSON and document
// surfaces. Every failure there is reported with transport status 500.
type apiFailure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondWithJSONError writes the failure envelope and logs the underlying
// error. The message is what the caller sees; err stays in the logs.
func respondWithJSONError(w http.ResponseWriter, logger zerolog.Logger, message string, err error) {
	if err != nil {
		logger.Error().Err(err).Msg(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(apiFailure{Message: message})
}

// respondWithJSON writes a success payload.
func respondWithJSON(w http.ResponseWriter, logger zerolog.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

// setFlash stores a one-shot notice shown after the next redirect.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the flash notice, if any.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
