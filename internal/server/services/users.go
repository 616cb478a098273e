// Package services contains the server-side business logic: account
// registration and login, the content graph with its ownership rules, and
// the interaction dispatcher.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mgreer/miniblog/internal/common"
	"github.com/mgreer/miniblog/internal/cryptox"
	"github.com/mgreer/miniblog/internal/server/auth"
	"github.com/mgreer/miniblog/internal/server/config"
	"github.com/mgreer/miniblog/internal/server/models"
	"github.com/mgreer/miniblog/internal/server/repositories/repomanager"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	passwordRe = regexp.MustCompile(`^.{3,20}$`)
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// FieldError is a recoverable validation failure attached to a single form
// field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors aggregates field-level failures of one registration
// attempt. Matching: errors.As.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// RegistrationForm carries the raw signup fields.
type RegistrationForm struct {
	Username string
	Password string
	Verify   string
	Email    string
}

// UserService handles registration, login, and API token issuance.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register validates the form, rejects duplicate usernames, and creates the
// account. Validation failures come back as ValidationErrors with one entry
// per offending field and nothing is written. Credentials are never partial:
// either the whole record is stored or none of it.
func (s *UserService) Register(ctx context.Context, form RegistrationForm) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	var fieldErrs ValidationErrors

	if !usernameRe.MatchString(form.Username) {
		fieldErrs = append(fieldErrs, FieldError{Field: "username", Message: "That's not a valid username."})
	}
	if !passwordRe.MatchString(form.Password) {
		fieldErrs = append(fieldErrs, FieldError{Field: "password", Message: "That wasn't a valid password."})
	} else if form.Password != form.Verify {
		fieldErrs = append(fieldErrs, FieldError{Field: "verify", Message: "Your passwords didn't match."})
	}
	if form.Email != "" && !emailRe.MatchString(form.Email) {
		fieldErrs = append(fieldErrs, FieldError{Field: "email", Message: "That's not a valid email."})
	}

	if form.Username != "" {
		exists, err := repo.ExistsByUsername(ctx, form.Username)
		if err != nil {
			return nil, fmt.Errorf("error checking username: %w", err)
		}
		if exists {
			fieldErrs = append(fieldErrs, FieldError{
				Field:   "username",
				Message: "That username already exists. Choose another and try again.",
			})
		}
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	hash, err := cryptox.HashPassword(form.Username, form.Password, "")
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		// A concurrent signup can slip past the existence check and trip
		// the unique constraint instead.
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, ValidationErrors{{
				Field:   "username",
				Message: "That username already exists. Choose another and try again.",
			}}
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns the account. Failures are a
// generic common.ErrorUnauthorized that never reveals which field was wrong.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword(username, password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// APIToken mints a bearer token for the JSON surface.
func (s *UserService) APIToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
}

// GetUser resolves an account by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}
