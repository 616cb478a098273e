package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgreer/miniblog/internal/logging"
)

func newDispatcher(t *testing.T) (*Dispatcher, *ContentService, sqlmock.Sqlmock) {
	t.Helper()
	s, mock, _ := newContentService(t)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewDispatcher(s, logger), s, mock
}

func TestDispatch_DefaultRedirect(t *testing.T) {
	d, s, _ := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	got := d.Dispatch(ctx, post.ID, &alice, ActionBatch{})
	assert.Equal(t, RedirectPost, got)
}

func TestDispatch_LikeUnauthenticatedRedirectsToLogin(t *testing.T) {
	d, s, _ := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	got := d.Dispatch(ctx, post.ID, nil, ActionBatch{Like: true})
	assert.Equal(t, RedirectLogin, got)

	count, _, err := s.LikeSummary(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, count, "anonymous like must not be recorded")
}

func TestDispatch_LikeThenUnlikeInOneBatch(t *testing.T) {
	d, s, _ := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	// like runs before unlike within a batch, so the pair cancels out.
	got := d.Dispatch(ctx, post.ID, &bob, ActionBatch{Like: true, Unlike: true})
	assert.Equal(t, RedirectPost, got)

	count, _, err := s.LikeSummary(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDispatch_DeletePostByCreator(t *testing.T) {
	d, s, mock := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	got := d.Dispatch(ctx, post.ID, &alice, ActionBatch{DeletePost: true})
	assert.Equal(t, RedirectBlog, got)

	_, err = s.GetPost(ctx, post.ID)
	assert.Error(t, err)
}

func TestDispatch_DeletePostBlockedForNonCreator(t *testing.T) {
	d, s, _ := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	// A denied delete redisplays the post; only a delete that actually
	// happened goes back to the index.
	got := d.Dispatch(ctx, post.ID, &bob, ActionBatch{DeletePost: true})
	assert.Equal(t, RedirectPost, got)

	_, err = s.GetPost(ctx, post.ID)
	require.NoError(t, err, "post must survive")
}

func TestDispatch_EditPostRedirect(t *testing.T) {
	d, s, _ := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	got := d.Dispatch(ctx, post.ID, &alice, ActionBatch{EditPost: true})
	assert.Equal(t, RedirectEdit, got)
}

func TestDispatch_DeleteWinsOverEdit(t *testing.T) {
	d, s, mock := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	got := d.Dispatch(ctx, post.ID, &alice, ActionBatch{DeletePost: true, EditPost: true})
	assert.Equal(t, RedirectBlog, got)
}

func TestDispatch_EditWinsOverAuthError(t *testing.T) {
	d, s, _ := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	got := d.Dispatch(ctx, post.ID, nil, ActionBatch{Like: true, EditPost: true})
	assert.Equal(t, RedirectEdit, got)
}

func TestDispatch_CommentActions(t *testing.T) {
	d, s, _ := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	got := d.Dispatch(ctx, post.ID, &bob, ActionBatch{Comment: "hi from bob"})
	assert.Equal(t, RedirectPost, got)

	comments, err := s.CommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	comment := comments[0]
	assert.Equal(t, "hi from bob", comment.Content)
	assert.Equal(t, bob.ID, comment.CreatorID)

	d.Dispatch(ctx, post.ID, &bob, ActionBatch{EditComment: comment.ID})
	got2 := commentByID(t, s, post.ID, comment.ID)
	assert.True(t, got2.EditMode)

	d.Dispatch(ctx, post.ID, &bob, ActionBatch{UpdateComment: comment.ID, UpdatedComment: "hi again"})
	got2 = commentByID(t, s, post.ID, comment.ID)
	assert.False(t, got2.EditMode)
	assert.Equal(t, "hi again", got2.Content)

	d.Dispatch(ctx, post.ID, &bob, ActionBatch{DeleteComment: comment.ID})
	comments, err = s.CommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDispatch_PerActionErrorDoesNotStopBatch(t *testing.T) {
	d, s, _ := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	// update_c targets a comment that does not exist; the new comment at
	// the end of the batch must still be stored.
	got := d.Dispatch(ctx, post.ID, &bob, ActionBatch{
		UpdateComment:  999,
		UpdatedComment: "never lands",
		Comment:        "still arrives",
	})
	assert.Equal(t, RedirectPost, got)

	comments, err := s.CommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "still arrives", comments[0].Content)
}

func TestDispatch_AnonymousCommentIgnored(t *testing.T) {
	d, s, _ := newDispatcher(t)
	ctx := context.Background()

	post, err := s.CreatePost(ctx, alice, "Hello", "World")
	require.NoError(t, err)

	got := d.Dispatch(ctx, post.ID, nil, ActionBatch{Comment: "drive-by"})
	assert.Equal(t, RedirectPost, got)

	comments, err := s.CommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
