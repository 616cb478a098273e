package comments

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

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {

	query :=
		`INSERT INTO comments (post_id, creator_id, creator_name, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, last_modified
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.PostID, comment.CreatorID, comment.CreatorName, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt, &comment.LastModified)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query :=
		`SELECT id, post_id, creator_id, creator_name, content, edit_mode, created_at, last_modified
		 FROM comments
		 WHERE id = $1
		 `

	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&comment.ID, &comment.PostID, &comment.CreatorID, &comment.CreatorName,
			&comment.Content, &comment.EditMode, &comment.CreatedAt, &comment.LastModified)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query :=
		`SELECT id, post_id, creator_id, creator_name, content, edit_mode, created_at, last_modified
		 FROM comments
		 WHERE post_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.CreatorID, &comment.CreatorName,
			&comment.Content, &comment.EditMode, &comment.CreatedAt, &comment.LastModified); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	query :=
		`UPDATE comments SET content = $2, edit_mode = false, last_modified = now()
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

func (r *PostgresRepository) SetEditMode(ctx context.Context, id int64, editMode bool) error {
	query :=
		`UPDATE comments SET edit_mode = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, editMode)
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
	query := `DELETE FROM comments WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteByPost(ctx context.Context, postID int64) error {
	query := `DELETE FROM comments WHERE post_id = $1`

	if _, err := r.db.ExecContext(ctx, query, postID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
