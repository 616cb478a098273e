// Package posts persists blog posts.
package posts

import (
	"context"

	"github.com/mgreer/miniblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	// Recent returns up to limit posts ordered by creation time descending.
	Recent(ctx context.Context, limit int) ([]*models.Post, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	// Delete removes the post. Deleting a missing post is a no-op.
	Delete(ctx context.Context, id int64) error
}
