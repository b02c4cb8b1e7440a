package domain

import "time"

// Post is an authored piece of content with an aggregated like count.
type Post struct {
	ID        string
	AuthorID  string
	Content   string
	LikeCount int64
	CreatedAt time.Time
}
