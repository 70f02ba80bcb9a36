package memstore

import (
	"sort"

	"social-feed-backend/internal/models"
)

// insertOrdered places p into posts, which is kept newest first
func insertOrdered(posts []*models.Post, p *models.Post) []*models.Post {
	i := sort.Search(len(posts), func(i int) bool { return models.NewerFirst(p, posts[i]) })
	posts = append(posts, nil)
	copy(posts[i+1:], posts[i:])
	posts[i] = p
	return posts
}

// seek returns the index of the first post that sorts after c
func seek(posts []*models.Post, c models.Cursor) int {
	return sort.Search(len(posts), func(i int) bool { return c.Admits(posts[i]) })
}
