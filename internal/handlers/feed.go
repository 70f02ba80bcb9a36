package handlers

import (
	"net/http"

	"social-feed-backend/internal/middleware"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/services"
)

// FeedHandler serves the home feed
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// GetFeed handles GET /api/v1/feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	respondPage(w, r, "get feed", h.feedService.DefaultPageSize(),
		func(page, pageSize int) (*models.FeedPage, error) {
			return h.feedService.GetFeed(ctx, userID, page, pageSize)
		},
		func(cursor string, pageSize int) (*models.FeedPage, error) {
			return h.feedService.GetFeedAfter(ctx, userID, cursor, pageSize)
		},
	)
}
