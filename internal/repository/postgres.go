package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// NewPostgresStores wires every storage port to the given pool
func NewPostgresStores(db *pgxpool.Pool) Stores {
	return Stores{
		Users:      NewUserRepository(db),
		Graph:      NewFollowRepository(db),
		Content:    NewPostRepository(db),
		Engagement: NewEngagementRepository(db),
	}
}

// Migrate creates the tables and indexes if they do not exist yet
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
