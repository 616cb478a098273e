package httpapi

import (
	"net/http"
	"strconv"

	"github.com/mgreer/miniblog/internal/server/services"
)

// Form field names on the post page. like1 is a single toggle button whose
// value is the action it performs; the comment-action fields carry the
// target comment id.
const (
	fieldLikeToggle     = "like1"
	fieldUnlike         = "unlike"
	fieldEditComment    = "edit_c"
	fieldUpdateComment  = "update_c"
	fieldUpdatedComment = "updated_comment"
	fieldCancelUpdate   = "cancel_u_c"
	fieldDeleteComment  = "delete_c"
	fieldDeletePost     = "delete_p"
	fieldEditPost       = "edit_p"
	fieldComment        = "comment"
)

// parseActionBatch lifts the raw form fields into an ActionBatch. Comment
// ids that fail to parse come out as zero, which the dispatcher treats as
// "action absent". ParseForm must already have run.
func parseActionBatch(r *http.Request) services.ActionBatch {
	toggle := r.PostFormValue(fieldLikeToggle)

	return services.ActionBatch{
		Like:           toggle == services.ButtonLike,
		Unlike:         toggle == services.ButtonUnlike || r.PostFormValue(fieldUnlike) != "",
		EditComment:    formID(r, fieldEditComment),
		UpdateComment:  formID(r, fieldUpdateComment),
		UpdatedComment: r.PostFormValue(fieldUpdatedComment),
		CancelEdit:     formID(r, fieldCancelUpdate),
		DeleteComment:  formID(r, fieldDeleteComment),
		DeletePost:     r.PostFormValue(fieldDeletePost) != "",
		EditPost:       r.PostFormValue(fieldEditPost) != "",
		Comment:        r.PostFormValue(fieldComment),
	}
}

func formID(r *http.Request, field string) int64 {
	id, _ := strconv.ParseInt(r.PostFormValue(field), 10, 64)
	return id
}
