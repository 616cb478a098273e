package models

import "time"

// Post is a blog entry. Only the creator may edit or delete it.
type Post struct {
	ID           int64
	Subject      string
	Content      string
	CreatorID    int64
	CreatorName  string
	CreatedAt    time.Time
	LastModified time.Time
}
