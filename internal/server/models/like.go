package models

import "time"

// Like records that a user liked a post. At most one row with DoesLike=true
// may exist per (CreatorID, PostID); unliking deletes the row rather than
// flipping the flag.
type Like struct {
	ID           int64
	PostID       int64
	CreatorID    int64
	CreatorName  string
	DoesLike     bool
	CreatedAt    time.Time
	LastModified time.Time
}
