package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mgreer/miniblog/internal/common"
	"github.com/mgreer/miniblog/internal/dbx"
	"github.com/mgreer/miniblog/internal/server/config"
	"github.com/mgreer/miniblog/internal/server/models"
	"github.com/mgreer/miniblog/internal/server/repositories/repomanager"
)

// Actor is an authenticated identity performing content actions. The id is
// the authorization subject; the name is carried only for display fields.
type Actor struct {
	ID   int64
	Name string
}

// Like-button states as shown to the viewer.
const (
	ButtonLike   = "like"
	ButtonUnlike = "unlike"
)

// ContentService owns the post/comment/like graph and its permission rules.
// Every mutating action on a post or comment runs through the authorize
// guard; there is no role or admin override.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	recentLimit int
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ContentService {
	return &ContentService{
		db:          db,
		repomanager: m,
		recentLimit: cfg.RecentPostsLimit,
	}
}

// authorize is the single permission predicate for mutating actions:
// the actor must be the entity's creator.
func (s *ContentService) authorize(actorID, creatorID int64) error {
	if actorID != creatorID {
		return common.ErrForbidden
	}
	return nil
}

// ---- posts ----

// CreatePost stores a new post. Subject and content are both required.
func (s *ContentService) CreatePost(ctx context.Context, actor Actor, subject, content string) (*models.Post, error) {
	if subject == "" || content == "" {
		return nil, ValidationErrors{{
			Field:   "content",
			Message: "You need to enter both a Subject and Content to create a new post.",
		}}
	}

	post := &models.Post{
		Subject:     subject,
		Content:     content,
		CreatorID:   actor.ID,
		CreatorName: actor.Name,
	}

	post, err := s.repomanager.Posts(s.db).Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	return post, nil
}

func (s *ContentService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return s.repomanager.Posts(s.db).GetByID(ctx, id)
}

// RecentPosts returns the fixed recent-items window, newest first.
func (s *ContentService) RecentPosts(ctx context.Context) ([]*models.Post, error) {
	return s.repomanager.Posts(s.db).Recent(ctx, s.recentLimit)
}

// UpdatePostContent overwrites the post body. Creator only.
func (s *ContentService) UpdatePostContent(ctx context.Context, actorID, postID int64, content string) error {
	repo := s.repomanager.Posts(s.db)

	post, err := repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.authorize(actorID, post.CreatorID); err != nil {
		return err
	}

	return repo.UpdateContent(ctx, postID, content)
}

// DeletePost removes the post and cascades to its comments and likes in one
// transaction, so no orphaned records survive. Creator only; deleting a
// missing post is a no-op.
func (s *ContentService) DeletePost(ctx context.Context, actorID, postID int64) error {
	post, err := s.repomanager.Posts(s.db).GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if err := s.authorize(actorID, post.CreatorID); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Comments(tx).DeleteByPost(ctx, postID); err != nil {
			return err
		}
		if err := s.repomanager.Likes(tx).DeleteByPost(ctx, postID); err != nil {
			return err
		}
		return s.repomanager.Posts(tx).Delete(ctx, postID)
	})
}

// ---- comments ----

// AddComment stores a comment by any authenticated user.
func (s *ContentService) AddComment(ctx context.Context, actor Actor, postID int64, content string) (*models.Comment, error) {
	if content == "" {
		return nil, ValidationErrors{{Field: "comment", Message: "Empty comments are not allowed."}}
	}

	comment := &models.Comment{
		PostID:      postID,
		CreatorID:   actor.ID,
		CreatorName: actor.Name,
		Content:     content,
	}

	comment, err := s.repomanager.Comments(s.db).Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	return comment, nil
}

func (s *ContentService) CommentsForPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return s.repomanager.Comments(s.db).ListByPost(ctx, postID)
}

// EnterEditMode flips the comment into its editable rendering. This is
// persisted UI state, not a lock.
func (s *ContentService) EnterEditMode(ctx context.Context, actorID, commentID int64) error {
	repo := s.repomanager.Comments(s.db)

	comment, err := repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.authorize(actorID, comment.CreatorID); err != nil {
		return err
	}

	return repo.SetEditMode(ctx, commentID, true)
}

// UpdateComment commits an edit: content is overwritten and edit mode
// cleared. Creator only; last writer wins.
func (s *ContentService) UpdateComment(ctx context.Context, actorID, commentID int64, content string) error {
	repo := s.repomanager.Comments(s.db)

	comment, err := repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.authorize(actorID, comment.CreatorID); err != nil {
		return err
	}

	return repo.UpdateContent(ctx, commentID, content)
}

// CancelEdit leaves the content untouched and clears edit mode.
func (s *ContentService) CancelEdit(ctx context.Context, actorID, commentID int64) error {
	repo := s.repomanager.Comments(s.db)

	comment, err := repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.authorize(actorID, comment.CreatorID); err != nil {
		return err
	}

	return repo.SetEditMode(ctx, commentID, false)
}

// DeleteComment removes the comment permanently. Creator only. Deleting an
// already-deleted comment is an idempotent success, not an error.
func (s *ContentService) DeleteComment(ctx context.Context, actorID, commentID int64) error {
	repo := s.repomanager.Comments(s.db)

	comment, err := repo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if err := s.authorize(actorID, comment.CreatorID); err != nil {
		return err
	}

	return repo.Delete(ctx, commentID)
}

// ---- likes ----

// Like records an active like for (actor, post). The insert is idempotent:
// when the actor already has an active like on the post the click is a
// no-op, keeping the at-most-one-active-like invariant.
func (s *ContentService) Like(ctx context.Context, actor Actor, postID int64) error {
	repo := s.repomanager.Likes(s.db)

	existing, err := repo.ListByPost(ctx, postID)
	if err != nil {
		return err
	}
	for _, l := range existing {
		if l.DoesLike && l.CreatorID == actor.ID {
			return nil
		}
	}

	like := &models.Like{
		PostID:      postID,
		CreatorID:   actor.ID,
		CreatorName: actor.Name,
		DoesLike:    true,
	}
	if _, err := repo.Create(ctx, like); err != nil {
		return fmt.Errorf("error creating like: %w", err)
	}

	return nil
}

// Unlike scans the post's like records in creation-time-descending order and
// deletes the last matching active like of the actor (with the invariant
// held there is exactly one). Removing a like that does not exist is a
// no-op.
func (s *ContentService) Unlike(ctx context.Context, actorID, postID int64) error {
	repo := s.repomanager.Likes(s.db)

	existing, err := repo.ListByPost(ctx, postID)
	if err != nil {
		return err
	}

	var victim *models.Like
	for _, l := range existing {
		if l.DoesLike && l.CreatorID == actorID {
			victim = l
		}
	}
	if victim == nil {
		return nil
	}

	return repo.Delete(ctx, victim.ID)
}

// LikeSummary computes the display count (active likes from any user) and
// the viewer's toggle button state.
func (s *ContentService) LikeSummary(ctx context.Context, postID, viewerID int64) (count int, button string, err error) {
	existing, err := s.repomanager.Likes(s.db).ListByPost(ctx, postID)
	if err != nil {
		return 0, "", err
	}

	button = ButtonLike
	for _, l := range existing {
		if !l.DoesLike {
			continue
		}
		count++
		if l.CreatorID == viewerID {
			button = ButtonUnlike
		}
	}

	return count, button, nil
}
