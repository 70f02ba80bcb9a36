package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case apperr.IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrSelfReference), errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs err and answers with its mapped status. Internal
// failures get a generic message so storage details stay server side.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status := statusFor(err)
	event := log.Warn()
	message := err.Error()
	if status == http.StatusInternalServerError {
		event = log.Error()
		message = "internal server error"
	}
	event.
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Failed to " + action)
	respondError(w, message, status)
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("body", "is not valid JSON")
	}
	return nil
}

// queryInt parses an integer query parameter, returning def when absent
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid(name, "must be an integer")
	}
	return v, nil
}

// respondPage serves a post listing. A cursor parameter switches from page
// numbers to keyset pagination.
func respondPage(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	defaultSize int,
	byPage func(page, pageSize int) (*models.FeedPage, error),
	byCursor func(cursor string, pageSize int) (*models.FeedPage, error),
) {
	pageSize, err := queryInt(r, "page_size", defaultSize)
	if err != nil {
		respondServiceError(w, r, err, action)
		return
	}

	var result *models.FeedPage
	if query := r.URL.Query(); query.Has("cursor") {
		result, err = byCursor(query.Get("cursor"), pageSize)
	} else {
		var page int
		if page, err = queryInt(r, "page", 1); err == nil {
			result, err = byPage(page, pageSize)
		}
	}
	if err != nil {
		respondServiceError(w, r, err, action)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
