package handlers

import (
	"net/http"

	"social-feed-backend/internal/middleware"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
	postService *services.PostService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, postService *services.PostService) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
	}
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "create user")
		return
	}

	resp, err := h.userService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "create user")
		return
	}

	log.Info().
		Str("user_id", resp.User.ID).
		Str("handle", resp.User.Handle).
		Msg("User created")

	respondJSON(w, http.StatusCreated, resp)
}

// GetProfile handles GET /api/v1/users/{user_id}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetProfile(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, r, err, "get profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// GetUserPosts handles GET /api/v1/users/{user_id}/posts
func (h *UserHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, chi.URLParam(r, "user_id"))
}

// GetMyPosts handles GET /api/v1/me/posts
func (h *UserHandler) GetMyPosts(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, middleware.GetUserID(r.Context()))
}

func (h *UserHandler) listPosts(w http.ResponseWriter, r *http.Request, authorID string) {
	ctx := r.Context()
	respondPage(w, r, "list posts", h.postService.DefaultPageSize(),
		func(page, pageSize int) (*models.FeedPage, error) {
			return h.postService.PostsByAuthor(ctx, authorID, page, pageSize)
		},
		func(cursor string, pageSize int) (*models.FeedPage, error) {
			return h.postService.PostsByAuthorAfter(ctx, authorID, cursor, pageSize)
		},
	)
}
