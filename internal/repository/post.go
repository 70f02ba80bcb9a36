package repository

import (
	"context"
	"errors"
	"fmt"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, seq, author_id, caption, image_ref, audio_ref, category, created_at`

// PostRepository handles database operations for posts
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// CreatePost creates a new post and fills in its sequence number
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, caption, image_ref, audio_ref, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq
	`
	err := r.db.QueryRow(ctx, query,
		post.ID, post.AuthorID, post.Caption, post.ImageRef, post.AudioRef, post.Category, post.CreatedAt,
	).Scan(&post.Seq)
	return classify("create post", err, apperr.ErrAlreadyExists)
}

// GetPost retrieves a post by ID
func (r *PostRepository) GetPost(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var post models.Post
	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID, &post.Seq, &post.AuthorID, &post.Caption, &post.ImageRef,
		&post.AudioRef, &post.Category, &post.CreatedAt,
	)
	if err != nil {
		err = classify("get post", err, nil)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("post")
		}
		return nil, err
	}
	return &post, nil
}

// PostsByAuthors lists the posts written by any of authorIDs, newest first
func (r *PostRepository) PostsByAuthors(ctx context.Context, authorIDs []string, q models.PageQuery) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, nil
	}
	return r.list(ctx, "author_id = ANY($1)", authorIDs, q)
}

// PostsExcludingAuthor lists the posts written by anyone but authorID, newest first
func (r *PostRepository) PostsExcludingAuthor(ctx context.Context, authorID string, q models.PageQuery) ([]*models.Post, error) {
	return r.list(ctx, "author_id <> $1", authorID, q)
}

// list runs a ranged scan over the (created_at DESC, seq DESC) order. A
// cursor turns into a row comparison so Postgres can seek on the index
// instead of skipping rows.
func (r *PostRepository) list(ctx context.Context, filter string, arg any, q models.PageQuery) ([]*models.Post, error) {
	args := []any{arg}
	where := filter
	offset := q.Offset
	if q.After != nil {
		where += " AND (created_at, seq) < ($2, $3)"
		args = append(args, q.After.CreatedAt, q.After.Seq)
		offset = 0
	}

	var limit any
	if q.Limit > 0 {
		limit = q.Limit
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		WHERE %s
		ORDER BY created_at DESC, seq DESC
		LIMIT $%d OFFSET $%d
	`, postColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("list posts", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		var post models.Post
		err := rows.Scan(
			&post.ID, &post.Seq, &post.AuthorID, &post.Caption, &post.ImageRef,
			&post.AudioRef, &post.Category, &post.CreatedAt,
		)
		if err != nil {
			return nil, apperr.Storage("scan post", err)
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterate posts", err)
	}
	return posts, nil
}
