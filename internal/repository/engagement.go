package repository

import (
	"context"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EngagementRepository handles database operations for likes and comments
type EngagementRepository struct {
	db *pgxpool.Pool
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// Like inserts a like. The likes primary key makes the insert the
// existence check.
func (r *EngagementRepository) Like(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (user_id, post_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, like.UserID, like.PostID, like.CreatedAt)
	return classify("create like", err, apperr.ErrAlreadyLiked)
}

// Unlike deletes a like
func (r *EngagementRepository) Unlike(ctx context.Context, userID, postID string) error {
	query := `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`
	result, err := r.db.Exec(ctx, query, userID, postID)
	if err != nil {
		return apperr.Storage("delete like", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("like")
	}
	return nil
}

// Comment inserts a comment and fills in its sequence number
func (r *EngagementRepository) Comment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq
	`
	err := r.db.QueryRow(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.Text, comment.CreatedAt,
	).Scan(&comment.Seq)
	return classify("create comment", err, apperr.ErrAlreadyExists)
}

// LikesForPost lists the likes of a post in the order they were given
func (r *EngagementRepository) LikesForPost(ctx context.Context, postID string) ([]*models.Like, error) {
	query := `
		SELECT user_id, post_id, created_at
		FROM likes
		WHERE post_id = $1
		ORDER BY seq
	`
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, apperr.Storage("list likes", err)
	}
	defer rows.Close()

	likes := []*models.Like{}
	for rows.Next() {
		var like models.Like
		if err := rows.Scan(&like.UserID, &like.PostID, &like.CreatedAt); err != nil {
			return nil, apperr.Storage("scan like", err)
		}
		likes = append(likes, &like)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterate likes", err)
	}
	return likes, nil
}

// CommentsForPost lists the comments of a post oldest first
func (r *EngagementRepository) CommentsForPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `
		SELECT id, seq, post_id, user_id, content, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at, seq
	`
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, apperr.Storage("list comments", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Seq, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, apperr.Storage("scan comment", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterate comments", err)
	}
	return comments, nil
}
