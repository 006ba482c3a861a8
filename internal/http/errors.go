package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"patent-checker/internal/middleware"
	"patent-checker/internal/repo"
	"patent-checker/internal/services/infringement"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, infringement.NewErrorResponse(code, message, middleware.RequestID(r.Context())))
}

// writeServiceError maps domain errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, infringement.ErrPatentNotFound),
		errors.Is(err, infringement.ErrCompanyNotFound),
		errors.Is(err, repo.ErrNotFound):
		writeError(w, r, http.StatusNotFound, infringement.ErrCodeNotFound, err.Error())
	case errors.Is(err, infringement.ErrNoInfringingProducts):
		writeError(w, r, http.StatusNotFound, infringement.ErrCodeNotFound, "No infringing products found")
	case errors.Is(err, infringement.ErrUpstream):
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Upstream assessment failed")
		writeError(w, r, http.StatusInternalServerError, infringement.ErrCodeUpstream, "Failed to complete assessment")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
		writeError(w, r, http.StatusInternalServerError, infringement.ErrCodeInternal, "Internal server error")
	}
}
