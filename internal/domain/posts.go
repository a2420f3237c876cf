package domain

import "time"

const MaxPostContentLen = 1000

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PostWithAuthor joins a post with the author fields the feed renders.
type PostWithAuthor struct {
	Post
	Author UserSummary `json:"author"`
}
