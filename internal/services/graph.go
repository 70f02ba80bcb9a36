package services

import (
	"context"
	"time"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/metrics"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/repository"
)

// GraphService handles follow relationships
type GraphService struct {
	users   repository.UserStore
	graph   repository.GraphStore
	metrics *metrics.Metrics
	now     clock
}

// NewGraphService creates a new graph service
func NewGraphService(stores repository.Stores, m *metrics.Metrics) *GraphService {
	return &GraphService{
		users:   stores.Users,
		graph:   stores.Graph,
		metrics: m,
		now:     time.Now,
	}
}

// Follow makes followerID follow followedID. The store insert is the
// duplicate check, so concurrent attempts on one pair store a single edge.
func (s *GraphService) Follow(ctx context.Context, followerID, followedID string) (edge *models.FollowEdge, err error) {
	defer func() { s.metrics.ObserveWrite("follow", err) }()

	if err := requireCaller(followerID); err != nil {
		return nil, err
	}
	if followerID == followedID {
		return nil, apperr.ErrSelfReference
	}

	edge = &models.FollowEdge{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  s.now.stamp(),
	}
	if err := s.graph.Follow(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// Unfollow removes the edge from followerID to followedID
func (s *GraphService) Unfollow(ctx context.Context, followerID, followedID string) (err error) {
	defer func() { s.metrics.ObserveWrite("unfollow", err) }()

	if err := requireCaller(followerID); err != nil {
		return err
	}
	if followerID == followedID {
		return apperr.ErrSelfReference
	}
	return s.graph.Unfollow(ctx, followerID, followedID)
}

// Following lists the users userID follows
func (s *GraphService) Following(ctx context.Context, userID string) ([]*models.UserRef, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.graph.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return refs(ctx, s.users, ids)
}

// Followers lists the users following userID
func (s *GraphService) Followers(ctx context.Context, userID string) ([]*models.UserRef, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.graph.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return refs(ctx, s.users, ids)
}
