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

// Engagement kinds carried by change notifications
const (
	EngagementLike    = "like"
	EngagementUnlike  = "unlike"
	EngagementComment = "comment"
)

// EngagementNotifier is told about every committed engagement change
type EngagementNotifier interface {
	NotifyEngagement(postID, kind string)
}

// EngagementService handles likes and comments. Each committed write
// invalidates the post's aggregate before the notifier hears about it.
type EngagementService struct {
	engagement repository.EngagementStore
	aggregator *EngagementAggregator
	notifier   EngagementNotifier
	limits     config.ContentConfig
	validator  *fieldValidator
	metrics    *metrics.Metrics
	now        clock
}

// NewEngagementService creates a new engagement service. notifier may be nil.
func NewEngagementService(
	stores repository.Stores,
	aggregator *EngagementAggregator,
	notifier EngagementNotifier,
	cfg config.ContentConfig,
	m *metrics.Metrics,
) *EngagementService {
	return &EngagementService{
		engagement: stores.Engagement,
		aggregator: aggregator,
		notifier:   notifier,
		limits:     cfg,
		validator:  newFieldValidator(),
		metrics:    m,
		now:        time.Now,
	}
}

// Like records that userID likes postID
func (s *EngagementService) Like(ctx context.Context, userID, postID string) (err error) {
	defer func() { s.metrics.ObserveWrite("like", err) }()

	if err := requireCaller(userID); err != nil {
		return err
	}
	like := &models.Like{UserID: userID, PostID: postID, CreatedAt: s.now.stamp()}
	if err := s.engagement.Like(ctx, like); err != nil {
		return err
	}
	s.changed(postID, EngagementLike)
	return nil
}

// Unlike removes userID's like from postID
func (s *EngagementService) Unlike(ctx context.Context, userID, postID string) (err error) {
	defer func() { s.metrics.ObserveWrite("unlike", err) }()

	if err := requireCaller(userID); err != nil {
		return err
	}
	if err := s.engagement.Unlike(ctx, userID, postID); err != nil {
		return err
	}
	s.changed(postID, EngagementUnlike)
	return nil
}

// Comment adds a comment by userID to postID
func (s *EngagementService) Comment(ctx context.Context, userID, postID, text string) (comment *models.Comment, err error) {
	defer func() { s.metrics.ObserveWrite("comment", err) }()

	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if err := s.validator.text("comment", text, true, s.limits.MaxComment); err != nil {
		return nil, err
	}

	comment = &models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		Text:      text,
		CreatedAt: s.now.stamp(),
	}
	if err := s.engagement.Comment(ctx, comment); err != nil {
		return nil, err
	}
	s.changed(postID, EngagementComment)
	return comment, nil
}

func (s *EngagementService) changed(postID, kind string) {
	if s.aggregator != nil {
		s.aggregator.Invalidate(postID)
	}
	if s.notifier != nil {
		s.notifier.NotifyEngagement(postID, kind)
	}
}
