package domain

import "time"

// Comment belongs to a post.
type Comment struct {
	ID        string
	AuthorID  string
	PostID    string
	Content   string
	CreatedAt time.Time
}
