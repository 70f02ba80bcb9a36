package models

import "time"

// Profile is the public view of a user
type Profile struct {
	ID             string      `json:"id"`
	Handle         string      `json:"handle"`
	Name           string      `json:"name"`
	Bio            string      `json:"bio"`
	FollowersCount int         `json:"followers_count"`
	FollowingCount int         `json:"following_count"`
	Posts          []*FeedItem `json:"posts"`
}

// UserRef is a user id decorated with its handle
type UserRef struct {
	UserID string `json:"user_id"`
	Handle string `json:"handle"`
}

// FeedItem is a post decorated with its author's handle
type FeedItem struct {
	*Post
	AuthorHandle string `json:"author_handle"`
}

// FeedPage is one page of a post listing
type FeedPage struct {
	Items      []*FeedItem `json:"items"`
	Page       int         `json:"page,omitempty"`
	PageSize   int         `json:"page_size"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// CommentView is a comment decorated with its author's handle
type CommentView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Handle    string    `json:"handle"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PostDetail is a post together with its engagement aggregates
type PostDetail struct {
	*Post
	AuthorHandle string         `json:"author_handle"`
	LikeCount    int            `json:"like_count"`
	CommentCount int            `json:"comment_count"`
	Comments     []*CommentView `json:"comments"`
	Likers       []*UserRef     `json:"likers"`
}
