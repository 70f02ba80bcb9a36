package services

import (
	"context"

	"social-feed-backend/internal/config"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/repository"
)

// FeedService assembles the reverse-chronological feed of the accounts a
// user follows. Ordering and windowing are pushed down to the content
// store, so a page never materialises the followed authors' full history.
type FeedService struct {
	users   repository.UserStore
	graph   repository.GraphStore
	content repository.ContentStore
	pager   pager
}

// NewFeedService creates a new feed service
func NewFeedService(stores repository.Stores, cfg config.FeedConfig) *FeedService {
	return &FeedService{
		users:   stores.Users,
		graph:   stores.Graph,
		content: stores.Content,
		pager:   pager{defaultSize: cfg.DefaultPageSize, maxSize: cfg.MaxPageSize},
	}
}

// DefaultPageSize is the page size used when the caller gives none
func (s *FeedService) DefaultPageSize() int {
	return s.pager.defaultSize
}

// GetFeed returns the 1-indexed page of userID's feed. A page past the end
// is empty.
func (s *FeedService) GetFeed(ctx context.Context, userID string, page, pageSize int) (*models.FeedPage, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	q, err := s.pager.offset(page, pageSize)
	if err != nil {
		return nil, err
	}
	result, err := s.assemble(ctx, userID, q, pageSize)
	if err != nil {
		return nil, err
	}
	result.Page = page
	return result, nil
}

// GetFeedAfter returns the page of userID's feed that follows cursor. An
// empty cursor starts at the newest post.
func (s *FeedService) GetFeedAfter(ctx context.Context, userID, cursor string, pageSize int) (*models.FeedPage, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	q, err := s.pager.after(cursor, pageSize)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, userID, q, pageSize)
}

func (s *FeedService) assemble(ctx context.Context, userID string, q models.PageQuery, pageSize int) (*models.FeedPage, error) {
	result := &models.FeedPage{Items: []*models.FeedItem{}, PageSize: pageSize}

	followed, err := s.graph.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followed) == 0 {
		return result, nil
	}

	posts, err := s.content.PostsByAuthors(ctx, followed, q)
	if err != nil {
		return nil, err
	}
	posts, result.NextCursor = trim(posts, pageSize)

	result.Items, err = decorate(ctx, s.users, posts)
	if err != nil {
		return nil, err
	}
	return result, nil
}
