package services

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"social-feed-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementService_Like(t *testing.T) {
	e := newTestEnv(t)
	alice, bob := e.register(t, "alice"), e.register(t, "bob")
	post := e.publish(t, alice, "sunset")

	require.NoError(t, e.engagement.Like(e.ctx, bob.ID, post.ID))
	assert.ErrorIs(t, e.engagement.Like(e.ctx, bob.ID, post.ID), apperr.ErrAlreadyLiked)
	assert.ErrorIs(t, e.engagement.Like(e.ctx, bob.ID, "ghost"), apperr.ErrNotFound)
	assert.ErrorIs(t, e.engagement.Like(e.ctx, "", post.ID), apperr.ErrUnauthenticated)

	require.NoError(t, e.engagement.Unlike(e.ctx, bob.ID, post.ID))
	assert.ErrorIs(t, e.engagement.Unlike(e.ctx, bob.ID, post.ID), apperr.ErrNotFound)

	assert.Equal(t, []notification{
		{postID: post.ID, kind: EngagementLike},
		{postID: post.ID, kind: EngagementUnlike},
	}, e.notifier.all())
}

func TestEngagementService_ConcurrentLikes(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice")
	post := e.publish(t, alice, "sunset")

	const workers = 32
	var succeeded atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.engagement.Like(e.ctx, alice.ID, post.ID)
			if err == nil {
				succeeded.Add(1)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrAlreadyLiked)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	detail, err := e.aggregator.PostDetail(e.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.LikeCount)
}

func TestEngagementService_Comment(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice")
	post := e.publish(t, alice, "sunset")

	comment, err := e.engagement.Comment(e.ctx, alice.ID, post.ID, "  lovely  ")
	require.NoError(t, err)
	assert.Equal(t, "lovely", comment.Text)
	assert.NotEmpty(t, comment.ID)

	// the same user may comment again
	_, err = e.engagement.Comment(e.ctx, alice.ID, post.ID, "still lovely")
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID string
		postID string
		text   string
		want   error
	}{
		{"empty text", alice.ID, post.ID, "   ", apperr.ErrInvalidInput},
		{"oversized text", alice.ID, post.ID, strings.Repeat("x", e.cfg.Content.MaxComment+1), apperr.ErrInvalidInput},
		{"unknown post", alice.ID, "ghost", "hello", apperr.ErrNotFound},
		{"anonymous", "", post.ID, "hello", apperr.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.engagement.Comment(e.ctx, tt.userID, tt.postID, tt.text)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
