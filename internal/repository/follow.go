package repository

import (
	"context"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FollowRepository handles database operations for follow edges.
// Uniqueness and the no-self-follow rule are enforced by the follows
// primary key and check constraint, so concurrent duplicate inserts
// resolve inside Postgres.
type FollowRepository struct {
	db *pgxpool.Pool
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow inserts a follow edge
func (r *FollowRepository) Follow(ctx context.Context, edge *models.FollowEdge) error {
	query := `
		INSERT INTO follows (follower_id, followed_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, edge.FollowerID, edge.FollowedID, edge.CreatedAt)
	return classify("create follow", err, apperr.ErrAlreadyExists)
}

// Unfollow deletes a follow edge
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`
	result, err := r.db.Exec(ctx, query, followerID, followedID)
	if err != nil {
		return apperr.Storage("delete follow", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("follow")
	}
	return nil
}

// ListFollowing returns the ids followed by userID
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	return r.listIDs(ctx, `SELECT followed_id FROM follows WHERE follower_id = $1 ORDER BY created_at`, userID)
}

// ListFollowers returns the ids following userID
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	return r.listIDs(ctx, `SELECT follower_id FROM follows WHERE followed_id = $1 ORDER BY created_at`, userID)
}

// CountFollowers counts the users following userID
func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE followed_id = $1`, userID)
}

// CountFollowing counts the users userID follows
func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID)
}

func (r *FollowRepository) listIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Storage("list follows", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Storage("scan follow", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterate follows", err)
	}
	return ids, nil
}

func (r *FollowRepository) count(ctx context.Context, query, userID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, apperr.Storage("count follows", err)
	}
	return n, nil
}
