package repomanager

import (
	"context"
	"database/sql"

	"github.com/mgreer/miniblog/internal/dbx"
	"github.com/mgreer/miniblog/internal/server/repositories/comments"
	"github.com/mgreer/miniblog/internal/server/repositories/likes"
	"github.com/mgreer/miniblog/internal/server/repositories/posts"
	"github.com/mgreer/miniblog/internal/server/repositories/users"
)

// InMemoryRepositoryManager returns the same map-backed repositories
// regardless of the handle passed in; there is no real transaction scope.
type InMemoryRepositoryManager struct {
	users    *users.InMemoryRepository
	posts    *posts.InMemoryRepository
	comments *comments.InMemoryRepository
	likes    *likes.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:    users.NewInMemoryRepository(),
		posts:    posts.NewInMemoryRepository(),
		comments: comments.NewInMemoryRepository(),
		likes:    likes.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Posts(db dbx.DBTX) posts.Repository {
	return m.posts
}

func (m *InMemoryRepositoryManager) Comments(db dbx.DBTX) comments.Repository {
	return m.comments
}

func (m *InMemoryRepositoryManager) Likes(db dbx.DBTX) likes.Repository {
	return m.likes
}
