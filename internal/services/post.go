package services

import (
	"context"
	"strings"
	"time"

	"social-feed-backend/internal/config"
	"social-feed-backend/internal/metrics"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/repository"

	"github.com/google/uuid"
)

// PostService handles post creation and author listings
type PostService struct {
	users     repository.UserStore
	content   repository.ContentStore
	limits    config.ContentConfig
	pager     pager
	validator *fieldValidator
	metrics   *metrics.Metrics
	now       clock
}

// NewPostService creates a new post service
func NewPostService(stores repository.Stores, cfg *config.Config, m *metrics.Metrics) *PostService {
	return &PostService{
		users:     stores.Users,
		content:   stores.Content,
		limits:    cfg.Content,
		pager:     pager{defaultSize: cfg.Feed.DefaultPageSize, maxSize: cfg.Feed.MaxPageSize},
		validator: newFieldValidator(),
		metrics:   m,
		now:       time.Now,
	}
}

// CreatePostRequest represents a request to publish a post
type CreatePostRequest struct {
	Caption  string  `json:"caption"`
	ImageRef string  `json:"image_ref"`
	AudioRef *string `json:"audio_ref,omitempty"`
	Category string  `json:"category"`
}

// CreatePost validates and stores a new post authored by authorID
func (s *PostService) CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (post *models.Post, err error) {
	defer func() { s.metrics.ObserveWrite("create_post", err) }()

	if err := requireCaller(authorID); err != nil {
		return nil, err
	}

	caption := strings.TrimSpace(req.Caption)
	imageRef := strings.TrimSpace(req.ImageRef)
	category := strings.TrimSpace(req.Category)
	var audioRef *string
	if req.AudioRef != nil {
		if ref := strings.TrimSpace(*req.AudioRef); ref != "" {
			audioRef = &ref
		}
	}

	if err := s.validator.text("caption", caption, true, s.limits.MaxCaption); err != nil {
		return nil, err
	}
	if err := s.validator.text("image_ref", imageRef, true, s.limits.MaxRef); err != nil {
		return nil, err
	}
	if audioRef != nil {
		if err := s.validator.text("audio_ref", *audioRef, false, s.limits.MaxRef); err != nil {
			return nil, err
		}
	}
	if err := s.validator.text("category", category, true, s.limits.MaxCategory); err != nil {
		return nil, err
	}

	post = &models.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Caption:   caption,
		ImageRef:  imageRef,
		AudioRef:  audioRef,
		Category:  category,
		CreatedAt: s.now.stamp(),
	}
	if err := s.content.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return s.content.GetPost(ctx, postID)
}

// DefaultPageSize is the page size used when the caller gives none
func (s *PostService) DefaultPageSize() int {
	return s.pager.defaultSize
}

// PostsByAuthor lists one page of authorID's posts, newest first
func (s *PostService) PostsByAuthor(ctx context.Context, authorID string, page, pageSize int) (*models.FeedPage, error) {
	q, err := s.pager.offset(page, pageSize)
	if err != nil {
		return nil, err
	}
	result, err := s.byAuthor(ctx, authorID, q, pageSize)
	if err != nil {
		return nil, err
	}
	result.Page = page
	return result, nil
}

// PostsByAuthorAfter lists authorID's posts that follow cursor. An empty
// cursor starts at the newest post.
func (s *PostService) PostsByAuthorAfter(ctx context.Context, authorID, cursor string, pageSize int) (*models.FeedPage, error) {
	q, err := s.pager.after(cursor, pageSize)
	if err != nil {
		return nil, err
	}
	return s.byAuthor(ctx, authorID, q, pageSize)
}

// Explore lists one page of posts written by everybody except userID
func (s *PostService) Explore(ctx context.Context, userID string, page, pageSize int) (*models.FeedPage, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	q, err := s.pager.offset(page, pageSize)
	if err != nil {
		return nil, err
	}
	result, err := s.explore(ctx, userID, q, pageSize)
	if err != nil {
		return nil, err
	}
	result.Page = page
	return result, nil
}

// ExploreAfter continues Explore from cursor
func (s *PostService) ExploreAfter(ctx context.Context, userID, cursor string, pageSize int) (*models.FeedPage, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	q, err := s.pager.after(cursor, pageSize)
	if err != nil {
		return nil, err
	}
	return s.explore(ctx, userID, q, pageSize)
}

func (s *PostService) byAuthor(ctx context.Context, authorID string, q models.PageQuery, pageSize int) (*models.FeedPage, error) {
	if _, err := s.users.GetUser(ctx, authorID); err != nil {
		return nil, err
	}
	posts, err := s.content.PostsByAuthors(ctx, []string{authorID}, q)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, posts, pageSize)
}

func (s *PostService) explore(ctx context.Context, userID string, q models.PageQuery, pageSize int) (*models.FeedPage, error) {
	posts, err := s.content.PostsExcludingAuthor(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, posts, pageSize)
}

func (s *PostService) page(ctx context.Context, posts []*models.Post, pageSize int) (*models.FeedPage, error) {
	posts, next := trim(posts, pageSize)
	items, err := decorate(ctx, s.users, posts)
	if err != nil {
		return nil, err
	}
	return &models.FeedPage{Items: items, PageSize: pageSize, NextCursor: next}, nil
}
