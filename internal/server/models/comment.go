package models

import "time"

// Comment belongs to a post, matched by PostID value. EditMode is persisted
// UI state, not a lock: concurrent editors race and the last update wins.
type Comment struct {
	ID           int64
	PostID       int64
	CreatorID    int64
	CreatorName  string
	Content      string
	EditMode     bool
	CreatedAt    time.Time
	LastModified time.Time
}
