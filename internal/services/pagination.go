package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"

	"social-feed-backend/internal/apperr"
	"social-feed-backend/internal/models"
)

// pager validates page parameters against the configured bounds
type pager struct {
	defaultSize int
	maxSize     int
}

func (p pager) checkSize(pageSize int) error {
	if pageSize < 1 || pageSize > p.maxSize {
		return apperr.Invalid("page_size", fmt.Sprintf("must be within [1, %d]", p.maxSize))
	}
	return nil
}

// offset builds the query for a 1-indexed page. One extra row is requested
// to learn whether a next page exists.
func (p pager) offset(page, pageSize int) (models.PageQuery, error) {
	if err := p.checkSize(pageSize); err != nil {
		return models.PageQuery{}, err
	}
	if page < 1 || page > math.MaxInt32 {
		return models.PageQuery{}, apperr.Invalid("page", "must be a positive integer")
	}
	return models.PageQuery{Limit: pageSize + 1, Offset: (page - 1) * pageSize}, nil
}

// after builds the query continuing from an opaque cursor. An empty cursor
// starts at the newest post.
func (p pager) after(cursor string, pageSize int) (models.PageQuery, error) {
	if err := p.checkSize(pageSize); err != nil {
		return models.PageQuery{}, err
	}
	q := models.PageQuery{Limit: pageSize + 1}
	if cursor == "" {
		return q, nil
	}
	c, err := DecodeCursor(cursor)
	if err != nil {
		return models.PageQuery{}, err
	}
	q.After = c
	return q, nil
}

// trim cuts the extra row fetched by offset/after and returns the cursor of
// the last kept post when more rows exist
func trim(posts []*models.Post, pageSize int) ([]*models.Post, string) {
	if len(posts) <= pageSize {
		return posts, ""
	}
	posts = posts[:pageSize]
	return posts, EncodeCursor(models.CursorOf(posts[len(posts)-1]))
}

// EncodeCursor renders an ordering key as an opaque URL-safe token
func EncodeCursor(c models.Cursor) string {
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses a token produced by EncodeCursor
func DecodeCursor(token string) (*models.Cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperr.Invalid("cursor", "is malformed")
	}
	var c models.Cursor
	if err := json.Unmarshal(data, &c); err != nil || c.CreatedAt.IsZero() {
		return nil, apperr.Invalid("cursor", "is malformed")
	}
	return &c, nil
}
