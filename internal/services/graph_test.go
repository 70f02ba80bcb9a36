package services

import (
	"sync"
	"sync/atomic"
	"testing"

	"social-feed-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphService_Follow(t *testing.T) {
	t.Run("self follow is rejected without an edge", func(t *testing.T) {
		e := newTestEnv(t)
		alice := e.register(t, "alice")

		_, err := e.graph.Follow(e.ctx, alice.ID, alice.ID)
		assert.ErrorIs(t, err, apperr.ErrSelfReference)

		following, err := e.graph.Following(e.ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, following)
	})

	t.Run("second follow conflicts", func(t *testing.T) {
		e := newTestEnv(t)
		alice, bob := e.register(t, "alice"), e.register(t, "bob")

		edge, err := e.graph.Follow(e.ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, edge.FollowedID)

		_, err = e.graph.Follow(e.ctx, alice.ID, bob.ID)
		assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
	})

	t.Run("missing caller", func(t *testing.T) {
		e := newTestEnv(t)
		bob := e.register(t, "bob")
		_, err := e.graph.Follow(e.ctx, "", bob.ID)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("unknown target", func(t *testing.T) {
		e := newTestEnv(t)
		alice := e.register(t, "alice")
		_, err := e.graph.Follow(e.ctx, alice.ID, "ghost")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("concurrent duplicates store one edge", func(t *testing.T) {
		e := newTestEnv(t)
		alice, bob := e.register(t, "alice"), e.register(t, "bob")

		const workers = 32
		var succeeded, conflicted atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.graph.Follow(e.ctx, alice.ID, bob.ID)
				if err == nil {
					succeeded.Add(1)
				} else if assert.ErrorIs(t, err, apperr.ErrAlreadyExists) {
					conflicted.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
		assert.Equal(t, int32(workers-1), conflicted.Load())

		followers, err := e.graph.Followers(e.ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, followers, 1)
	})
}

func TestGraphService_Listings(t *testing.T) {
	e := newTestEnv(t)
	alice, bob, carol := e.register(t, "alice"), e.register(t, "bob"), e.register(t, "carol")
	e.follow(t, alice, bob)
	e.follow(t, alice, carol)
	e.follow(t, carol, bob)

	following, err := e.graph.Following(e.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 2)
	assert.Equal(t, "bob", following[0].Handle)
	assert.Equal(t, "carol", following[1].Handle)

	followers, err := e.graph.Followers(e.ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, alice.ID, followers[0].UserID)

	_, err = e.graph.Followers(e.ctx, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, e.graph.Unfollow(e.ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, e.graph.Unfollow(e.ctx, alice.ID, bob.ID), apperr.ErrNotFound)
}
