package handlers

import (
	"net/http"

	"social-feed-backend/internal/middleware"
	"social-feed-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// EngagementHandler handles likes and comments
type EngagementHandler struct {
	engagementService *services.EngagementService
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagementService *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

// CommentRequest represents the request body for commenting on a post
type CommentRequest struct {
	Text string `json:"text"`
}

// Like handles POST /api/v1/posts/{post_id}/like
func (h *EngagementHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "post_id")

	if err := h.engagementService.Like(r.Context(), userID, postID); err != nil {
		respondServiceError(w, r, err, "like post")
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", postID).Msg("Post liked")
	w.WriteHeader(http.StatusNoContent)
}

// Unlike handles DELETE /api/v1/posts/{post_id}/like
func (h *EngagementHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "post_id")

	if err := h.engagementService.Unlike(r.Context(), userID, postID); err != nil {
		respondServiceError(w, r, err, "unlike post")
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", postID).Msg("Post unliked")
	w.WriteHeader(http.StatusNoContent)
}

// Comment handles POST /api/v1/posts/{post_id}/comments
func (h *EngagementHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "post_id")

	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "comment on post")
		return
	}

	comment, err := h.engagementService.Comment(r.Context(), userID, postID, req.Text)
	if err != nil {
		respondServiceError(w, r, err, "comment on post")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("post_id", postID).
		Str("comment_id", comment.ID).
		Msg("Comment added")

	respondJSON(w, http.StatusCreated, comment)
}
