package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mgreer/miniblog/internal/common"
	"github.com/mgreer/miniblog/internal/dbx"
	"github.com/mgreer/miniblog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (subject, content, creator_id, creator_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, last_modified
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.Subject, post.Content, post.CreatorID, post.CreatorName).
		Scan(&post.ID, &post.CreatedAt, &post.LastModified)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query :=
		`SELECT id, subject, content, creator_id, creator_name, created_at, last_modified
		 FROM posts
		 WHERE id = $1
		 `

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&post.ID, &post.Subject, &post.Content, &post.CreatorID,
			&post.CreatorName, &post.CreatedAt, &post.LastModified)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]*models.Post, error) {
	query :=
		`SELECT id, subject, content, creator_id, creator_name, created_at, last_modified
		 FROM posts
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.Subject, &post.Content, &post.CreatorID,
			&post.CreatorName, &post.CreatedAt, &post.LastModified); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	query :=
		`UPDATE posts SET content = $2, last_modified = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, content)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
