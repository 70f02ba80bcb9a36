package services

import (
	"context"
	"time"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/repository"
)

// clock yields acceptance timestamps. Stamps are truncated to microseconds
// so that in-memory and Postgres ordering agree.
type clock func() time.Time

func (c clock) stamp() time.Time {
	return c().UTC().Truncate(time.Microsecond)
}

func requireCaller(userID string) error {
	if userID == "" {
		return apperr.ErrUnauthenticated
	}
	return nil
}

// decorate attaches author handles to posts
func decorate(ctx context.Context, users repository.UserStore, posts []*models.Post) ([]*models.FeedItem, error) {
	items := make([]*models.FeedItem, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; !ok {
			seen[p.AuthorID] = struct{}{}
			ids = append(ids, p.AuthorID)
		}
	}
	authors, err := users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		item := &models.FeedItem{Post: p}
		if u, ok := authors[p.AuthorID]; ok {
			item.AuthorHandle = u.Handle
		}
		items = append(items, item)
	}
	return items, nil
}

// refs resolves handles for ids, keeping the order of ids
func refs(ctx context.Context, users repository.UserStore, ids []string) ([]*models.UserRef, error) {
	out := make([]*models.UserRef, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		ref := &models.UserRef{UserID: id}
		if u, ok := found[id]; ok {
			ref.Handle = u.Handle
		}
		out = append(out, ref)
	}
	return out, nil
}
