// Package comments persists per-post comments, including the transient
// edit-mode flag.
package comments

import (
	"context"

	"github.com/mgreer/miniblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	// ListByPost returns the post's comments ordered by creation time
	// descending.
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	// UpdateContent overwrites the content and clears the edit-mode flag.
	UpdateContent(ctx context.Context, id int64, content string) error
	SetEditMode(ctx context.Context, id int64, editMode bool) error
	// Delete removes the comment. Deleting a missing comment is a no-op.
	Delete(ctx context.Context, id int64) error
	// DeleteByPost removes every comment belonging to the post.
	DeleteByPost(ctx context.Context, postID int64) error
}
