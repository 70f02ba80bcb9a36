package memstore

import (
	"context"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"
)

// CreatePost inserts a post and assigns its sequence number
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return apperr.NotFound("user")
	}
	if _, ok := s.posts[post.ID]; ok {
		return apperr.ErrAlreadyExists
	}
	s.postSeq++
	post.Seq = s.postSeq

	p := *post
	s.posts[p.ID] = &p
	s.ordered = insertOrdered(s.ordered, &p)
	return nil
}

// GetPost retrieves a post by ID
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.NotFound("post")
	}
	cp := *p
	return &cp, nil
}

// PostsByAuthors lists the posts written by any of authorIDs, newest first
func (s *Store) PostsByAuthors(ctx context.Context, authorIDs []string, q models.PageQuery) ([]*models.Post, error) {
	authors := make(map[string]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = struct{}{}
	}
	return s.scan(ctx, q, func(p *models.Post) bool {
		_, ok := authors[p.AuthorID]
		return ok
	})
}

// PostsExcludingAuthor lists the posts written by anyone but authorID, newest first
func (s *Store) PostsExcludingAuthor(ctx context.Context, authorID string, q models.PageQuery) ([]*models.Post, error) {
	return s.scan(ctx, q, func(p *models.Post) bool { return p.AuthorID != authorID })
}

// scan walks the ordered index, seeking past the cursor, skipping Offset
// matches and stopping after Limit matches.
func (s *Store) scan(ctx context.Context, q models.PageQuery, match func(*models.Post) bool) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, skip := 0, q.Offset
	if q.After != nil {
		start = seek(s.ordered, *q.After)
		skip = 0
	}

	out := []*models.Post{}
	for _, p := range s.ordered[start:] {
		if !match(p) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		cp := *p
		out = append(out, &cp)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}
