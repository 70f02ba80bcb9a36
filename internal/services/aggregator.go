package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"social-feed-backend/internal/metrics"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/repository"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// EngagementAggregator composes post details from the engagement and
// identity stores. Details may be cached per post; returned values are
// shared and must not be modified.
type EngagementAggregator struct {
	users      repository.UserStore
	content    repository.ContentStore
	engagement repository.EngagementStore
	metrics    *metrics.Metrics

	cache *expirable.LRU[string, *models.PostDetail]
	group singleflight.Group
	// generation is bumped by every invalidation. A load that overlapped an
	// invalidation is returned but not cached. fill makes the generation
	// check and the cache insert one step with respect to Invalidate.
	generation atomic.Uint64
	fill       sync.Mutex
}

// NewEngagementAggregator creates an aggregator. A cacheSize of zero
// disables caching.
func NewEngagementAggregator(stores repository.Stores, cacheSize int, cacheTTL time.Duration, m *metrics.Metrics) *EngagementAggregator {
	a := &EngagementAggregator{
		users:      stores.Users,
		content:    stores.Content,
		engagement: stores.Engagement,
		metrics:    m,
	}
	if cacheSize > 0 {
		a.cache = expirable.NewLRU[string, *models.PostDetail](cacheSize, nil, cacheTTL)
	}
	return a
}

// PostDetail returns the post with like/comment counts, comments oldest
// first and likers
func (a *EngagementAggregator) PostDetail(ctx context.Context, postID string) (*models.PostDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.cache == nil {
		return a.load(ctx, postID)
	}
	if detail, ok := a.cache.Get(postID); ok {
		a.metrics.ObserveCache(true)
		return detail, nil
	}
	a.metrics.ObserveCache(false)

	// The load is shared by every caller waiting on postID and ignores their
	// cancellation. Each caller stops waiting when its own ctx ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := a.group.DoChan(postID, func() (interface{}, error) {
		gen := a.generation.Load()
		detail, err := a.load(loadCtx, postID)
		if err != nil {
			return nil, err
		}
		a.fill.Lock()
		if a.generation.Load() == gen {
			a.cache.Add(postID, detail)
		}
		a.fill.Unlock()
		return detail, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.PostDetail), nil
	}
}

// Invalidate drops the cached detail of postID. Writers call it after the
// change is committed.
func (a *EngagementAggregator) Invalidate(postID string) {
	a.fill.Lock()
	defer a.fill.Unlock()

	a.generation.Add(1)
	if a.cache == nil {
		return
	}
	a.group.Forget(postID)
	a.cache.Remove(postID)
}

// Likers lists the users who liked postID, in the order they liked it
func (a *EngagementAggregator) Likers(ctx context.Context, postID string) ([]*models.UserRef, error) {
	if _, err := a.content.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	likes, err := a.engagement.LikesForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.UserID)
	}
	return refs(ctx, a.users, ids)
}

// Comments lists the comments on postID oldest first
func (a *EngagementAggregator) Comments(ctx context.Context, postID string) ([]*models.CommentView, error) {
	if _, err := a.content.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := a.engagement.CommentsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	users, err := a.users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return commentViews(comments, users), nil
}

func (a *EngagementAggregator) load(ctx context.Context, postID string) (*models.PostDetail, error) {
	post, err := a.content.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	likes, err := a.engagement.LikesForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := a.engagement.CommentsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, 1+len(likes)+len(comments))
	ids = append(ids, post.AuthorID)
	for _, l := range likes {
		ids = append(ids, l.UserID)
	}
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	users, err := a.users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	detail := &models.PostDetail{
		Post:         post,
		LikeCount:    len(likes),
		CommentCount: len(comments),
		Comments:     commentViews(comments, users),
		Likers:       make([]*models.UserRef, 0, len(likes)),
	}
	if author, ok := users[post.AuthorID]; ok {
		detail.AuthorHandle = author.Handle
	}
	for _, l := range likes {
		ref := &models.UserRef{UserID: l.UserID}
		if u, ok := users[l.UserID]; ok {
			ref.Handle = u.Handle
		}
		detail.Likers = append(detail.Likers, ref)
	}
	return detail, nil
}

func commentViews(comments []*models.Comment, users map[string]*models.User) []*models.CommentView {
	views := make([]*models.CommentView, 0, len(comments))
	for _, c := range comments {
		view := &models.CommentView{
			ID:        c.ID,
			UserID:    c.UserID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		}
		if u, ok := users[c.UserID]; ok {
			view.Handle = u.Handle
		}
		views = append(views, view)
	}
	return views
}
