package httpapi

import (
	"time"

	"github.com/mgreer/miniblog/internal/server/models"
)

type okResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Status string            `json:"status"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type postView struct {
	ID           int64     `json:"id"`
	Subject      string    `json:"subject"`
	Content      string    `json:"content"`
	CreatorID    int64     `json:"creator_id"`
	CreatorName  string    `json:"creator_name"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

type commentView struct {
	ID           int64     `json:"id"`
	PostID       int64     `json:"post_id"`
	CreatorID    int64     `json:"creator_id"`
	CreatorName  string    `json:"creator_name"`
	Content      string    `json:"content"`
	EditMode     bool      `json:"edit_mode"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

type blogIndexResponse struct {
	Posts []postView `json:"posts"`
}

// postPageResponse is the full post view: the post, its comments newest
// first, the like tally, and the toggle button the viewer should see.
type postPageResponse struct {
	Post     postView      `json:"post"`
	Comments []commentView `json:"comments"`
	Likes    int           `json:"likes"`
	Button   string        `json:"button"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func toPostView(p *models.Post) postView {
	return postView{
		ID:           p.ID,
		Subject:      p.Subject,
		Content:      p.Content,
		CreatorID:    p.CreatorID,
		CreatorName:  p.CreatorName,
		CreatedAt:    p.CreatedAt,
		LastModified: p.LastModified,
	}
}

func toCommentViews(comments []*models.Comment) []commentView {
	out := make([]commentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentView{
			ID:           c.ID,
			PostID:       c.PostID,
			CreatorID:    c.CreatorID,
			CreatorName:  c.CreatorName,
			Content:      c.Content,
			EditMode:     c.EditMode,
			CreatedAt:    c.CreatedAt,
			LastModified: c.LastModified,
		})
	}
	return out
}
