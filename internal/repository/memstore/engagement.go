package memstore

import (
	"cmp"
	"context"
	"slices"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"
)

// Like inserts a like
func (s *Store) Like(ctx context.Context, like *models.Like) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[like.PostID]; !ok {
		return apperr.NotFound("post")
	}
	if _, ok := s.users[like.UserID]; !ok {
		return apperr.NotFound("user")
	}
	key := likeKey{user: like.UserID, post: like.PostID}
	if _, ok := s.likes[key]; ok {
		return apperr.ErrAlreadyLiked
	}
	s.likeSeq++
	rec := &likeRecord{like: *like, seq: s.likeSeq}
	s.likes[key] = rec
	s.postLikes[like.PostID] = append(s.postLikes[like.PostID], rec)
	return nil
}

// Unlike deletes a like
func (s *Store) Unlike(ctx context.Context, userID, postID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{user: userID, post: postID}
	rec, ok := s.likes[key]
	if !ok {
		return apperr.NotFound("like")
	}
	delete(s.likes, key)
	s.postLikes[postID] = slices.DeleteFunc(s.postLikes[postID], func(r *likeRecord) bool { return r == rec })
	return nil
}

// Comment inserts a comment and assigns its sequence number
func (s *Store) Comment(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return apperr.NotFound("post")
	}
	if _, ok := s.users[comment.UserID]; !ok {
		return apperr.NotFound("user")
	}
	s.commentSeq++
	comment.Seq = s.commentSeq

	c := *comment
	list := append(s.comments[c.PostID], &c)
	slices.SortStableFunc(list, func(a, b *models.Comment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
	s.comments[c.PostID] = list
	return nil
}

// LikesForPost lists the likes of a post in the order they were given
func (s *Store) LikesForPost(ctx context.Context, postID string) ([]*models.Like, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	likes := make([]*models.Like, 0, len(s.postLikes[postID]))
	for _, rec := range s.postLikes[postID] {
		l := rec.like
		likes = append(likes, &l)
	}
	return likes, nil
}

// CommentsForPost lists the comments of a post oldest first
func (s *Store) CommentsForPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]*models.Comment, 0, len(s.comments[postID]))
	for _, c := range s.comments[postID] {
		cp := *c
		comments = append(comments, &cp)
	}
	return comments, nil
}
