// Package httpapi is the HTTP shell over the blog services: routing,
// cookie-pair session handling, form parsing into action batches, and the
// JSON API surface.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mgreer/miniblog/internal/logging"
	"github.com/mgreer/miniblog/internal/server/config"
	"github.com/mgreer/miniblog/internal/server/services"
	"github.com/mgreer/miniblog/internal/server/session"
)

type Server struct {
	config     *config.Config
	logger     logging.Logger
	users      *services.UserService
	content    *services.ContentService
	dispatcher *services.Dispatcher
	sessions   *session.Manager

	httpServer *http.Server
}

func NewServer(cfg *config.Config, logger logging.Logger, users *services.UserService, content *services.ContentService) *Server {
	s := &Server{
		config:     cfg,
		logger:     logger.With("module", "httpapi"),
		users:      users,
		content:    content,
		dispatcher: services.NewDispatcher(content, logger),
		sessions:   session.NewManager(cfg.SecretKey),
	}
	s.httpServer = &http.Server{
		Addr:    cfg.EndpointAddr,
		Handler: s.Router(),
	}
	return s
}

// Router builds the full route table. Exposed so tests can drive the server
// through httptest without binding a socket.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware)

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/blog", s.handleBlogIndex).Methods(http.MethodGet)
	r.HandleFunc("/blog", s.handleBlogIndexPost).Methods(http.MethodPost)
	r.HandleFunc("/blog/signup", s.handleSignupForm).Methods(http.MethodGet)
	r.HandleFunc("/blog/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/blog/login", s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/blog/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/blog/logout", s.handleLogout).Methods(http.MethodGet)
	r.HandleFunc("/blog/newpost", s.handleNewPostForm).Methods(http.MethodGet)
	r.HandleFunc("/blog/newpost", s.handleNewPost).Methods(http.MethodPost)
	r.HandleFunc("/blog/edit/{id:[0-9]+}", s.handleEditPostForm).Methods(http.MethodGet)
	r.HandleFunc("/blog/edit/{id:[0-9]+}", s.handleEditPost).Methods(http.MethodPost)
	r.HandleFunc("/blog/{id:[0-9]+}", s.handlePostPage).Methods(http.MethodGet)
	r.HandleFunc("/blog/{id:[0-9]+}", s.handlePostActions).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/token", s.handleAPIToken).Methods(http.MethodPost)
	me := api.PathPrefix("/me").Subrouter()
	me.Use(s.bearerAuthMiddleware)
	me.HandleFunc("", s.handleAPIMe).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info(ctx, "http server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
