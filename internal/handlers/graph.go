package handlers

import (
	"context"
	"net/http"

	"social-feed-backend/internal/middleware"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// GraphHandler handles follow relationships
type GraphHandler struct {
	graphService *services.GraphService
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(graphService *services.GraphService) *GraphHandler {
	return &GraphHandler{graphService: graphService}
}

// Follow handles POST /api/v1/users/{user_id}/follow
func (h *GraphHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID := chi.URLParam(r, "user_id")

	edge, err := h.graphService.Follow(r.Context(), userID, targetID)
	if err != nil {
		respondServiceError(w, r, err, "follow user")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("followed_id", targetID).
		Msg("User followed")

	respondJSON(w, http.StatusCreated, edge)
}

// Unfollow handles DELETE /api/v1/users/{user_id}/follow
func (h *GraphHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID := chi.URLParam(r, "user_id")

	if err := h.graphService.Unfollow(r.Context(), userID, targetID); err != nil {
		respondServiceError(w, r, err, "unfollow user")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("followed_id", targetID).
		Msg("User unfollowed")

	w.WriteHeader(http.StatusNoContent)
}

// Followers handles GET /api/v1/users/{user_id}/followers
func (h *GraphHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.graphService.Followers)
}

// Following handles GET /api/v1/users/{user_id}/following
func (h *GraphHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.graphService.Following)
}

func (h *GraphHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) ([]*models.UserRef, error)) {
	users, err := fetch(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, r, err, "list users")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
