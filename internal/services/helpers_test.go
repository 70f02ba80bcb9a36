package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"social-feed-backend/internal/config"
	"social-feed-backend/internal/metrics"
	"social-feed-backend/internal/models"
	"social-feed-backend/internal/repository/memstore"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type notification struct {
	postID string
	kind   string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) NotifyEngagement(postID, kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{postID: postID, kind: kind})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification{}, n.events...)
}

type testEnv struct {
	ctx        context.Context
	cfg        *config.Config
	store      *memstore.Store
	clock      *fakeClock
	metrics    *metrics.Metrics
	notifier   *recordingNotifier
	users      *UserService
	graph      *GraphService
	posts      *PostService
	feed       *FeedService
	aggregator *EngagementAggregator
	engagement *EngagementService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.JWT.Secret = "test-secret"
	cfg.Cache.Size = 64

	store := memstore.New()
	stores := store.Stores()
	clk := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), step: time.Second}
	m := metrics.New("test")
	notifier := &recordingNotifier{}

	e := &testEnv{
		ctx:        context.Background(),
		cfg:        cfg,
		store:      store,
		clock:      clk,
		metrics:    m,
		notifier:   notifier,
		users:      NewUserService(stores, cfg, m),
		graph:      NewGraphService(stores, m),
		posts:      NewPostService(stores, cfg, m),
		feed:       NewFeedService(stores, cfg.Feed),
		aggregator: NewEngagementAggregator(stores, cfg.Cache.Size, cfg.Cache.TTL, m),
	}
	e.engagement = NewEngagementService(stores, e.aggregator, notifier, cfg.Content, m)

	e.users.now = clk.Now
	e.graph.now = clk.Now
	e.posts.now = clk.Now
	e.engagement.now = clk.Now
	return e
}

func (e *testEnv) register(t *testing.T, handle string) *models.User {
	t.Helper()
	resp, err := e.users.Register(e.ctx, RegisterRequest{Handle: handle})
	require.NoError(t, err)
	return resp.User
}

func (e *testEnv) publish(t *testing.T, author *models.User, caption string) *models.Post {
	t.Helper()
	post, err := e.posts.CreatePost(e.ctx, author.ID, CreatePostRequest{
		Caption:  caption,
		ImageRef: "images/" + caption + ".jpg",
		Category: "travel",
	})
	require.NoError(t, err)
	return post
}

func (e *testEnv) follow(t *testing.T, follower, followed *models.User) {
	t.Helper()
	_, err := e.graph.Follow(e.ctx, follower.ID, followed.ID)
	require.NoError(t, err)
}

func captions(items []*models.FeedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Caption)
	}
	return out
}
