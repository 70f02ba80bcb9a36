package handlers

import (
	"net/http"

	"social-feed-backend/internal/middleware"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postService *services.PostService
	aggregator  *services.EngagementAggregator
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *services.PostService, aggregator *services.EngagementAggregator) *PostHandler {
	return &PostHandler{
		postService: postService,
		aggregator:  aggregator,
	}
}

// CreatePost handles POST /api/v1/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req services.CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "create post")
		return
	}

	post, err := h.postService.CreatePost(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, r, err, "create post")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("post_id", post.ID).
		Str("category", post.Category).
		Msg("Post created")

	respondJSON(w, http.StatusCreated, post)
}

// GetPost handles GET /api/v1/posts/{post_id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	detail, err := h.aggregator.PostDetail(r.Context(), chi.URLParam(r, "post_id"))
	if err != nil {
		respondServiceError(w, r, err, "get post")
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// Explore handles GET /api/v1/posts
func (h *PostHandler) Explore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	respondPage(w, r, "explore posts", h.postService.DefaultPageSize(),
		func(page, pageSize int) (*models.FeedPage, error) {
			return h.postService.Explore(ctx, userID, page, pageSize)
		},
		func(cursor string, pageSize int) (*models.FeedPage, error) {
			return h.postService.ExploreAfter(ctx, userID, cursor, pageSize)
		},
	)
}

// GetLikes handles GET /api/v1/posts/{post_id}/likes
func (h *PostHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	likers, err := h.aggregator.Likers(r.Context(), chi.URLParam(r, "post_id"))
	if err != nil {
		respondServiceError(w, r, err, "list likes")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"likes": likers})
}

// GetComments handles GET /api/v1/posts/{post_id}/comments
func (h *PostHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.aggregator.Comments(r.Context(), chi.URLParam(r, "post_id"))
	if err != nil {
		respondServiceError(w, r, err, "list comments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}
