// Package likes persists like records. The toggle protocol itself lives in
// the content service; this package only stores and lists rows.
package likes

import (
	"context"

	"github.com/mgreer/miniblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, like *models.Like) (*models.Like, error)
	// ListByPost returns the post's like records ordered by creation time
	// descending.
	ListByPost(ctx context.Context, postID int64) ([]*models.Like, error)
	// Delete removes the like row. Deleting a missing like is a no-op.
	Delete(ctx context.Context, id int64) error
	// DeleteByPost removes every like belonging to the post.
	DeleteByPost(ctx context.Context, postID int64) error
}
