// Package repomanager vends repository implementations bound to a database
// handle and exposes a schema migration hook.
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

// RepositoryManager vends per-entity repositories bound to the provided
// DBTX, so services can run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
	Comments(db dbx.DBTX) comments.Repository
	Likes(db dbx.DBTX) likes.Repository
}
