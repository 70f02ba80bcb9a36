// Package memstore is an in-memory implementation of the storage ports.
// A single RWMutex serialises writers, so every existence check and the
// insert it guards happen as one atomic step.
package memstore

import (
	"context"
	"slices"
	"sync"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/repository"
)

var (
	_ repository.UserStore       = (*Store)(nil)
	_ repository.GraphStore      = (*Store)(nil)
	_ repository.ContentStore    = (*Store)(nil)
	_ repository.EngagementStore = (*Store)(nil)
)

type edgeKey struct {
	follower string
	followed string
}

type likeKey struct {
	user string
	post string
}

type likeRecord struct {
	like models.Like
	seq  int64
}

// Store holds every entity in memory
type Store struct {
	mu sync.RWMutex

	users   map[string]*models.User
	handles map[string]string

	edges     map[edgeKey]models.FollowEdge
	following map[string][]string
	followers map[string][]string

	posts   map[string]*models.Post
	ordered []*models.Post
	postSeq int64

	likes      map[likeKey]*likeRecord
	postLikes  map[string][]*likeRecord
	likeSeq    int64
	comments   map[string][]*models.Comment
	commentSeq int64
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:     make(map[string]*models.User),
		handles:   make(map[string]string),
		edges:     make(map[edgeKey]models.FollowEdge),
		following: make(map[string][]string),
		followers: make(map[string][]string),
		posts:     make(map[string]*models.Post),
		likes:     make(map[likeKey]*likeRecord),
		postLikes: make(map[string][]*likeRecord),
		comments:  make(map[string][]*models.Comment),
	}
}

// Stores exposes the store through every storage port
func (s *Store) Stores() repository.Stores {
	return repository.Stores{Users: s, Graph: s, Content: s, Engagement: s}
}

// CreateUser inserts a user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return apperr.ErrAlreadyExists
	}
	if _, ok := s.handles[user.Handle]; ok {
		return apperr.ErrAlreadyExists
	}
	u := *user
	s.users[u.ID] = &u
	s.handles[u.Handle] = u.ID
	return nil
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

// UsersByIDs retrieves every known user among ids
func (s *Store) UsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

// Follow inserts a follow edge
func (s *Store) Follow(ctx context.Context, edge *models.FollowEdge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if edge.FollowerID == edge.FollowedID {
		return apperr.ErrSelfReference
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[edge.FollowerID]; !ok {
		return apperr.NotFound("user")
	}
	if _, ok := s.users[edge.FollowedID]; !ok {
		return apperr.NotFound("user")
	}
	key := edgeKey{follower: edge.FollowerID, followed: edge.FollowedID}
	if _, ok := s.edges[key]; ok {
		return apperr.ErrAlreadyExists
	}
	s.edges[key] = *edge
	s.following[edge.FollowerID] = append(s.following[edge.FollowerID], edge.FollowedID)
	s.followers[edge.FollowedID] = append(s.followers[edge.FollowedID], edge.FollowerID)
	return nil
}

// Unfollow deletes a follow edge
func (s *Store) Unfollow(ctx context.Context, followerID, followedID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := edgeKey{follower: followerID, followed: followedID}
	if _, ok := s.edges[key]; !ok {
		return apperr.NotFound("follow")
	}
	delete(s.edges, key)
	s.following[followerID] = removeID(s.following[followerID], followedID)
	s.followers[followedID] = removeID(s.followers[followedID], followerID)
	return nil
}

// ListFollowing returns the ids followed by userID
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	return s.listIDs(ctx, s.following, userID)
}

// ListFollowers returns the ids following userID
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	return s.listIDs(ctx, s.followers, userID)
}

// CountFollowers counts the users following userID
func (s *Store) CountFollowers(ctx context.Context, userID string) (int, error) {
	ids, err := s.listIDs(ctx, s.followers, userID)
	return len(ids), err
}

// CountFollowing counts the users userID follows
func (s *Store) CountFollowing(ctx context.Context, userID string) (int, error) {
	ids, err := s.listIDs(ctx, s.following, userID)
	return len(ids), err
}

func (s *Store) listIDs(ctx context.Context, index map[string][]string, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, index[userID]...), nil
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}
