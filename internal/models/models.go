package models

import "time"

// User represents a registered account
type User struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// FollowEdge is a directed follow relationship between two users
type FollowEdge struct {
	FollowerID string    `json:"follower_id"`
	FollowedID string    `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Post represents content published by a user
type Post struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"-"`
	AuthorID  string    `json:"author_id"`
	Caption   string    `json:"caption"`
	ImageRef  string    `json:"image_ref"`
	AudioRef  *string   `json:"audio_ref,omitempty"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Like records that a user liked a post
type Like struct {
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment represents a comment left on a post
type Comment struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"-"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Cursor is the last-seen ordering key of a post listing.
// Listings are ordered by (CreatedAt desc, Seq desc).
type Cursor struct {
	CreatedAt time.Time `json:"t"`
	Seq       int64     `json:"s"`
}

// CursorOf returns the ordering key of a post
func CursorOf(p *Post) Cursor {
	return Cursor{CreatedAt: p.CreatedAt, Seq: p.Seq}
}

// Admits reports whether p sorts strictly after the cursor position,
// i.e. whether p belongs to the listing that continues from c.
func (c Cursor) Admits(p *Post) bool {
	if !p.CreatedAt.Equal(c.CreatedAt) {
		return p.CreatedAt.Before(c.CreatedAt)
	}
	return p.Seq < c.Seq
}

// PageQuery bounds a post listing. When After is set the listing starts
// right after that key and Offset is ignored.
type PageQuery struct {
	Limit  int
	Offset int
	After  *Cursor
}

// NewerFirst reports whether a sorts before b in reverse-chronological order
func NewerFirst(a, b *Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Seq > b.Seq
}
