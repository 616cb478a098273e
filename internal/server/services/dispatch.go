package services

import (
	"context"

	"github.com/mgreer/miniblog/internal/logging"
)

// ActionBatch is the set of independent actions one submitted request may
// carry against a single post. Zero values mean "action absent"; comment
// ids are never zero.
type ActionBatch struct {
	Like           bool
	Unlike         bool
	EditComment    int64 // comment id to flip into edit mode
	UpdateComment  int64 // comment id whose edit is committed
	UpdatedComment string
	CancelEdit     int64
	DeleteComment  int64
	DeletePost     bool
	EditPost       bool
	Comment        string // new comment text
}

// Redirect is the single terminal outcome of a dispatched batch.
type Redirect int

const (
	RedirectPost Redirect = iota // default: redisplay the post
	RedirectBlog                 // post was deleted
	RedirectEdit                 // edit view requested
	RedirectLogin                // authentication required
)

// Dispatcher translates an action batch into an ordered sequence of content
// mutations. The order is fixed and significant: later actions can observe
// state written by earlier ones within the same request.
type Dispatcher struct {
	content *ContentService
	logger  logging.Logger
}

func NewDispatcher(content *ContentService, logger logging.Logger) *Dispatcher {
	return &Dispatcher{content: content, logger: logger.With("module", "dispatch")}
}

// Dispatch executes the batch against postID. A nil actor means the request
// is unauthenticated. Per-action errors are terminal to that action only:
// they are logged and dispatch continues to the next action and to the
// redirect decision.
//
// Execution order: like, unlike, edit_c, update_c, cancel_u_c, delete_c,
// delete_p, edit_p, new comment. Redirect precedence: delete_p > edit_p >
// auth error > default. A blocked delete_p does not redirect to the index:
// only a delete that actually happened does.
func (d *Dispatcher) Dispatch(ctx context.Context, postID int64, actor *Actor, batch ActionBatch) Redirect {
	var (
		authError   bool
		deletedPost bool
	)

	// Guarded actions run with the unauthenticated sentinel id 0 when no
	// actor is present; 0 never equals a creator id, so the guard denies.
	actorID := int64(0)
	if actor != nil {
		actorID = actor.ID
	}

	if batch.Like {
		if actor == nil {
			authError = true
		} else if err := d.content.Like(ctx, *actor, postID); err != nil {
			d.logger.Warn(ctx, "like failed", "post_id", postID, "actor_id", actorID, "error", err)
		}
	}

	if batch.Unlike && actor != nil {
		if err := d.content.Unlike(ctx, actorID, postID); err != nil {
			d.logger.Warn(ctx, "unlike failed", "post_id", postID, "actor_id", actorID, "error", err)
		}
	}

	if batch.EditComment != 0 {
		if err := d.content.EnterEditMode(ctx, actorID, batch.EditComment); err != nil {
			d.logger.Warn(ctx, "edit_c failed", "comment_id", batch.EditComment, "actor_id", actorID, "error", err)
		}
	}

	if batch.UpdateComment != 0 {
		if err := d.content.UpdateComment(ctx, actorID, batch.UpdateComment, batch.UpdatedComment); err != nil {
			d.logger.Warn(ctx, "update_c failed", "comment_id", batch.UpdateComment, "actor_id", actorID, "error", err)
		}
	}

	if batch.CancelEdit != 0 {
		if err := d.content.CancelEdit(ctx, actorID, batch.CancelEdit); err != nil {
			d.logger.Warn(ctx, "cancel_u_c failed", "comment_id", batch.CancelEdit, "actor_id", actorID, "error", err)
		}
	}

	if batch.DeleteComment != 0 {
		if err := d.content.DeleteComment(ctx, actorID, batch.DeleteComment); err != nil {
			d.logger.Warn(ctx, "delete_c failed", "comment_id", batch.DeleteComment, "actor_id", actorID, "error", err)
		}
	}

	if batch.DeletePost {
		if err := d.content.DeletePost(ctx, actorID, postID); err != nil {
			d.logger.Warn(ctx, "delete_p failed", "post_id", postID, "actor_id", actorID, "error", err)
		} else {
			deletedPost = true
		}
	}

	editPost := batch.EditPost

	if batch.Comment != "" && actor != nil {
		if _, err := d.content.AddComment(ctx, *actor, postID, batch.Comment); err != nil {
			d.logger.Warn(ctx, "comment failed", "post_id", postID, "actor_id", actorID, "error", err)
		}
	}

	switch {
	case deletedPost:
		return RedirectBlog
	case editPost:
		return RedirectEdit
	case authError:
		return RedirectLogin
	default:
		return RedirectPost
	}
}
