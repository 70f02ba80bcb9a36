package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to FEED_TEST_DATABASE_URL and migrates a throwaway
// schema that is dropped when the test ends
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("FEED_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("FEED_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	schemaName := "feed_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schemaName)
	require.NoError(t, err)

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schemaName
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schemaName+" CASCADE")
		admin.Close()
	})

	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func TestPostgresStores(t *testing.T) {
	pool := newTestPool(t)
	stores := NewPostgresStores(pool)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, stores.Users.CreateUser(ctx, &models.User{ID: id, Handle: "h_" + id, CreatedAt: base}))
	}
	err := stores.Users.CreateUser(ctx, &models.User{ID: "d", Handle: "h_a", CreatedAt: base})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	t.Run("follow constraints", func(t *testing.T) {
		err := stores.Graph.Follow(ctx, &models.FollowEdge{FollowerID: "a", FollowedID: "a", CreatedAt: base})
		assert.ErrorIs(t, err, apperr.ErrSelfReference)

		err = stores.Graph.Follow(ctx, &models.FollowEdge{FollowerID: "a", FollowedID: "ghost", CreatedAt: base})
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		const workers = 16
		var ok, conflicts atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := stores.Graph.Follow(ctx, &models.FollowEdge{FollowerID: "a", FollowedID: "b", CreatedAt: base})
				switch {
				case err == nil:
					ok.Add(1)
				case assert.ErrorIs(t, err, apperr.ErrAlreadyExists):
					conflicts.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), ok.Load())
		assert.Equal(t, int32(workers-1), conflicts.Load())

		n, err := stores.Graph.CountFollowers(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("post ordering and pagination", func(t *testing.T) {
		for i := 0; i < 7; i++ {
			author := "b"
			if i%2 == 0 {
				author = "c"
			}
			p := &models.Post{
				ID:        fmt.Sprintf("p%d", i),
				AuthorID:  author,
				Caption:   "caption",
				ImageRef:  "img",
				Category:  "misc",
				CreatedAt: base.Add(time.Duration(i/2) * time.Minute),
			}
			require.NoError(t, stores.Content.CreatePost(ctx, p))
			assert.NotZero(t, p.Seq)
		}

		all, err := stores.Content.PostsByAuthors(ctx, []string{"b", "c"}, models.PageQuery{})
		require.NoError(t, err)
		ids := make([]string, 0, len(all))
		for _, p := range all {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"p6", "p5", "p4", "p3", "p2", "p1", "p0"}, ids)

		c := models.CursorOf(all[2])
		rest, err := stores.Content.PostsByAuthors(ctx, []string{"b", "c"}, models.PageQuery{Limit: 2, After: &c})
		require.NoError(t, err)
		require.Len(t, rest, 2)
		assert.Equal(t, "p3", rest[0].ID)
		assert.Equal(t, "p2", rest[1].ID)

		window, err := stores.Content.PostsByAuthors(ctx, []string{"b", "c"}, models.PageQuery{Limit: 2, Offset: 3})
		require.NoError(t, err)
		assert.Equal(t, rest[0].ID, window[0].ID)
		assert.Equal(t, rest[1].ID, window[1].ID)

		others, err := stores.Content.PostsExcludingAuthor(ctx, "c", models.PageQuery{})
		require.NoError(t, err)
		assert.Len(t, others, 3)
	})

	t.Run("likes and comments", func(t *testing.T) {
		const workers = 16
		var ok atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := stores.Engagement.Like(ctx, &models.Like{UserID: "a", PostID: "p0", CreatedAt: base}); err == nil {
					ok.Add(1)
				} else {
					assert.ErrorIs(t, err, apperr.ErrAlreadyLiked)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), ok.Load())

		err := stores.Engagement.Like(ctx, &models.Like{UserID: "a", PostID: "ghost", CreatedAt: base})
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		require.NoError(t, stores.Engagement.Comment(ctx, &models.Comment{ID: "c2", PostID: "p0", UserID: "c", Text: "later", CreatedAt: base.Add(time.Minute)}))
		require.NoError(t, stores.Engagement.Comment(ctx, &models.Comment{ID: "c1", PostID: "p0", UserID: "a", Text: "first", CreatedAt: base}))

		comments, err := stores.Engagement.CommentsForPost(ctx, "p0")
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "c1", comments[0].ID)
		assert.Equal(t, "c2", comments[1].ID)

		require.NoError(t, stores.Engagement.Unlike(ctx, "a", "p0"))
		assert.ErrorIs(t, stores.Engagement.Unlike(ctx, "a", "p0"), apperr.ErrNotFound)
		likes, err := stores.Engagement.LikesForPost(ctx, "p0")
		require.NoError(t, err)
		assert.Empty(t, likes)
	})
}
