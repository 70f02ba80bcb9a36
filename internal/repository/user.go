package repository

import (
	"context"
	"errors"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, handle, name, bio, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Handle, user.Name, user.Bio, user.CreatedAt)
	return classify("create user", err, apperr.ErrAlreadyExists)
}

// GetUser retrieves a user by ID
func (r *UserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, handle, name, bio, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Handle, &user.Name, &user.Bio, &user.CreatedAt,
	)
	if err != nil {
		err = classify("get user", err, nil)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return &user, nil
}

// UsersByIDs retrieves every known user among ids
func (r *UserRepository) UsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := `
		SELECT id, handle, name, bio, created_at
		FROM users
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, apperr.Storage("get users", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Handle, &user.Name, &user.Bio, &user.CreatedAt); err != nil {
			return nil, apperr.Storage("scan user", err)
		}
		users[user.ID] = &user
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterate users", err)
	}
	return users, nil
}
