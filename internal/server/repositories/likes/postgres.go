package likes

import (
	"context"
	"fmt"

	"github.com/mgreer/miniblog/internal/dbx"
	"github.com/mgreer/miniblog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, like *models.Like) (*models.Like, error) {

	query :=
		`INSERT INTO likes (post_id, creator_id, creator_name, does_like)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, last_modified
		 `

	err := r.db.QueryRowContext(ctx, query,
		like.PostID, like.CreatorID, like.CreatorName, like.DoesLike).
		Scan(&like.ID, &like.CreatedAt, &like.LastModified)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return like, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Like, error) {
	query :=
		`SELECT id, post_id, creator_id, creator_name, does_like, created_at, last_modified
		 FROM likes
		 WHERE post_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Like
	for rows.Next() {
		like := &models.Like{}
		if err := rows.Scan(&like.ID, &like.PostID, &like.CreatorID, &like.CreatorName,
			&like.DoesLike, &like.CreatedAt, &like.LastModified); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, like)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM likes WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteByPost(ctx context.Context, postID int64) error {
	query := `DELETE FROM likes WHERE post_id = $1`

	if _, err := r.db.ExecContext(ctx, query, postID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
