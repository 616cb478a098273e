package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mgreer/miniblog/internal/common"
	"github.com/mgreer/miniblog/internal/server/services"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Status: "error", Error: msg})
}

// writeServiceError maps a service error onto the HTTP surface. Validation
// failures carry per-field messages; everything unexpected is a bare 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field] = fe.Message
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Status: "error", Error: "validation failed", Fields: fields})
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeError(w, http.StatusUnauthorized, "Invalid login")
	case errors.Is(err, common.ErrForbidden):
		s.writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// actor resolves the request's identity from the session cookie pair,
// nil when unauthenticated.
func (s *Server) actor(r *http.Request) *services.Actor {
	id, name, ok := s.sessions.Identify(r)
	if !ok {
		return nil
	}
	return &services.Actor{ID: id, Name: name}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/blog", http.StatusFound)
}

func (s *Server) handleBlogIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := s.content.RecentPosts(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toPostView(p))
	}
	s.writeJSON(w, http.StatusOK, blogIndexResponse{Posts: views})
}

// handleBlogIndexPost is the create-post gate on the index: logged-in users
// go to the new-post form, everyone else to login.
func (s *Server) handleBlogIndexPost(w http.ResponseWriter, r *http.Request) {
	if s.actor(r) == nil {
		http.Redirect(w, r, "/blog/login", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/blog/newpost", http.StatusFound)
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, okResponse{Status: "ok"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	form := services.RegistrationForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Verify:   r.PostFormValue("verify"),
		Email:    r.PostFormValue("email"),
	}

	user, err := s.users.Register(r.Context(), form)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.sessions.SetPair(w, user.ID, user.Username)
	http.Redirect(w, r, "/blog", http.StatusFound)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, okResponse{Status: "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	user, err := s.users.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.sessions.SetPair(w, user.ID, user.Username)
	http.Redirect(w, r, "/blog", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearPair(w)
	http.Redirect(w, r, "/blog", http.StatusFound)
}

func (s *Server) handleNewPostForm(w http.ResponseWriter, r *http.Request) {
	if s.actor(r) == nil {
		http.Redirect(w, r, "/blog/login", http.StatusFound)
		return
	}
	s.writeJSON(w, http.StatusOK, okResponse{Status: "ok"})
}

func (s *Server) handleNewPost(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(r)
	if actor == nil {
		http.Redirect(w, r, "/blog/login", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	post, err := s.content.CreatePost(r.Context(), *actor, r.PostFormValue("subject"), r.PostFormValue("content"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, "/blog/"+strconv.FormatInt(post.ID, 10), http.StatusFound)
}

func (s *Server) handlePostPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := pathID(r)

	post, err := s.content.GetPost(ctx, postID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	comments, err := s.content.CommentsForPost(ctx, postID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var viewerID int64
	if actor := s.actor(r); actor != nil {
		viewerID = actor.ID
	}
	likes, button, err := s.content.LikeSummary(ctx, postID, viewerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, postPageResponse{
		Post:     toPostView(post),
		Comments: toCommentViews(comments),
		Likes:    likes,
		Button:   button,
	})
}

// handlePostActions parses the submitted form into an action batch,
// dispatches it, and answers with the redirect the outcome demands.
func (s *Server) handlePostActions(w http.ResponseWriter, r *http.Request) {
	postID := pathID(r)

	if _, err := s.content.GetPost(r.Context(), postID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	batch := parseActionBatch(r)
	redirect := s.dispatcher.Dispatch(r.Context(), postID, s.actor(r), batch)

	switch redirect {
	case services.RedirectBlog:
		http.Redirect(w, r, "/blog", http.StatusFound)
	case services.RedirectEdit:
		http.Redirect(w, r, "/blog/edit/"+strconv.FormatInt(postID, 10), http.StatusFound)
	case services.RedirectLogin:
		http.Redirect(w, r, "/blog/login", http.StatusFound)
	default:
		http.Redirect(w, r, "/blog/"+strconv.FormatInt(postID, 10), http.StatusFound)
	}
}

func (s *Server) handleEditPostForm(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(r)
	if actor == nil {
		http.Redirect(w, r, "/blog/login", http.StatusFound)
		return
	}

	post, err := s.content.GetPost(r.Context(), pathID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if post.CreatorID != actor.ID {
		s.writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	s.writeJSON(w, http.StatusOK, toPostView(post))
}

func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(r)
	if actor == nil {
		http.Redirect(w, r, "/blog/login", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	postID := pathID(r)
	if err := s.content.UpdatePostContent(r.Context(), actor.ID, postID, r.PostFormValue("content")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, "/blog/"+strconv.FormatInt(postID, 10), http.StatusFound)
}

func (s *Server) handleAPIToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	user, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	token, err := s.users.APIToken(user)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

func (s *Server) handleAPIMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.users.GetUser(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}
