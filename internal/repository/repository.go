// Package repository defines the storage ports of the social graph and the
// Postgres implementations behind them. Each store exclusively owns the
// tables of its entity type.
package repository

import (
	"context"

	"social-feed-backend/internal/models"
)

// UserStore persists user identities
type UserStore interface {
	// CreateUser inserts a user; a taken handle yields apperr.ErrAlreadyExists.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	// UsersByIDs returns the users found among ids keyed by id. Unknown ids are skipped.
	UsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// GraphStore persists directed follow edges
type GraphStore interface {
	// Follow inserts the edge atomically. A duplicate yields apperr.ErrAlreadyExists,
	// a self edge apperr.ErrSelfReference and an unknown user apperr.ErrNotFound.
	Follow(ctx context.Context, edge *models.FollowEdge) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	ListFollowing(ctx context.Context, userID string) ([]string, error)
	ListFollowers(ctx context.Context, userID string) ([]string, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
}

// ContentStore persists posts. Listings are ordered by creation time
// descending with the insertion sequence as tie-break.
type ContentStore interface {
	// CreatePost inserts the post and assigns post.Seq.
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	PostsByAuthors(ctx context.Context, authorIDs []string, q models.PageQuery) ([]*models.Post, error)
	PostsExcludingAuthor(ctx context.Context, authorID string, q models.PageQuery) ([]*models.Post, error)
}

// EngagementStore persists likes and comments
type EngagementStore interface {
	// Like inserts the like atomically. A duplicate yields apperr.ErrAlreadyLiked
	// and an unknown post apperr.ErrNotFound.
	Like(ctx context.Context, like *models.Like) error
	Unlike(ctx context.Context, userID, postID string) error
	// Comment inserts the comment and assigns comment.Seq.
	Comment(ctx context.Context, comment *models.Comment) error
	// LikesForPost returns likes in the order they were given.
	LikesForPost(ctx context.Context, postID string) ([]*models.Like, error)
	// CommentsForPost returns comments oldest first.
	CommentsForPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

// Stores bundles the storage ports used by the services
type Stores struct {
	Users      UserStore
	Graph      GraphStore
	Content    ContentStore
	Engagement EngagementStore
}
