package services

import (
	"strings"
	"testing"

	"social-feed-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice")

	t.Run("blank audio is dropped", func(t *testing.T) {
		blank := "  "
		post, err := e.posts.CreatePost(e.ctx, alice.ID, CreatePostRequest{
			Caption: "dunes", ImageRef: "img/dunes.jpg", AudioRef: &blank, Category: "travel",
		})
		require.NoError(t, err)
		assert.Nil(t, post.AudioRef)
		assert.NotZero(t, post.Seq)

		stored, err := e.posts.GetPost(e.ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "dunes", stored.Caption)
		assert.Equal(t, alice.ID, stored.AuthorID)
	})

	t.Run("keeps audio", func(t *testing.T) {
		audio := "audio/waves.mp3"
		post, err := e.posts.CreatePost(e.ctx, alice.ID, CreatePostRequest{
			Caption: "waves", ImageRef: "img/waves.jpg", AudioRef: &audio, Category: "travel",
		})
		require.NoError(t, err)
		require.NotNil(t, post.AudioRef)
		assert.Equal(t, audio, *post.AudioRef)
	})

	long := strings.Repeat("x", 256)
	tests := []struct {
		name   string
		author string
		req    CreatePostRequest
		want   error
	}{
		{"anonymous", "", CreatePostRequest{Caption: "c", ImageRef: "i", Category: "k"}, apperr.ErrUnauthenticated},
		{"missing caption", alice.ID, CreatePostRequest{ImageRef: "i", Category: "k"}, apperr.ErrInvalidInput},
		{"missing image", alice.ID, CreatePostRequest{Caption: "c", Category: "k"}, apperr.ErrInvalidInput},
		{"missing category", alice.ID, CreatePostRequest{Caption: "c", ImageRef: "i"}, apperr.ErrInvalidInput},
		{"caption too long", alice.ID, CreatePostRequest{Caption: long, ImageRef: "i", Category: "k"}, apperr.ErrInvalidInput},
		{"category too long", alice.ID, CreatePostRequest{Caption: "c", ImageRef: "i", Category: long[:51]}, apperr.ErrInvalidInput},
		{"audio too long", alice.ID, CreatePostRequest{Caption: "c", ImageRef: "i", Category: "k", AudioRef: &long}, apperr.ErrInvalidInput},
		{"unknown author", "ghost", CreatePostRequest{Caption: "c", ImageRef: "i", Category: "k"}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.posts.CreatePost(e.ctx, tt.author, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := e.posts.GetPost(e.ctx, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPostService_Listings(t *testing.T) {
	e := newTestEnv(t)
	alice, bob := e.register(t, "alice"), e.register(t, "bob")
	e.publish(t, alice, "a1")
	e.publish(t, bob, "b1")
	e.publish(t, alice, "a2")
	e.publish(t, bob, "b2")

	mine, err := e.posts.PostsByAuthor(e.ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, captions(mine.Items))
	assert.Equal(t, "alice", mine.Items[0].AuthorHandle)

	others, err := e.posts.Explore(e.ctx, alice.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, captions(others.Items))
	assert.NotEmpty(t, others.NextCursor)

	rest, err := e.posts.ExploreAfter(e.ctx, alice.ID, others.NextCursor, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, captions(rest.Items))
	assert.Empty(t, rest.NextCursor)

	first, err := e.posts.PostsByAuthorAfter(e.ctx, alice.ID, "", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, captions(first.Items))
	second, err := e.posts.PostsByAuthorAfter(e.ctx, alice.ID, first.NextCursor, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, captions(second.Items))

	_, err = e.posts.PostsByAuthorAfter(e.ctx, alice.ID, "bm90LWpzb24", 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = e.posts.ExploreAfter(e.ctx, "", "", 1)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = e.posts.PostsByAuthor(e.ctx, "ghost", 1, 10)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.posts.Explore(e.ctx, alice.ID, 0, 10)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
