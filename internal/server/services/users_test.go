package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgreer/miniblog/internal/common"
	"github.com/mgreer/miniblog/internal/server/auth"
	"github.com/mgreer/miniblog/internal/server/config"
	"github.com/mgreer/miniblog/internal/server/repositories/repomanager"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		RecentPostsLimit:            10,
	}
	return NewUserService(nil, repomanager.NewInMemoryRepositoryManager(), cfg)
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fe.Field)
	}
	return names
}

func TestRegister_Success(t *testing.T) {
	s := newUserService(t)

	user, err := s.Register(context.Background(), RegistrationForm{
		Username: "alice",
		Password: "secret123",
		Verify:   "secret123",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.ID)
	assert.Contains(t, user.PasswordHash, "|", "stored hash must pack salt|digest")
	assert.NotContains(t, user.PasswordHash, "secret123")
}

func TestRegister_FieldValidation(t *testing.T) {
	tests := []struct {
		name       string
		form       RegistrationForm
		wantFields []string
	}{
		{
			name:       "short username",
			form:       RegistrationForm{Username: "ab", Password: "secret", Verify: "secret"},
			wantFields: []string{"username"},
		},
		{
			name:       "illegal username characters",
			form:       RegistrationForm{Username: "al ice!", Password: "secret", Verify: "secret"},
			wantFields: []string{"username"},
		},
		{
			name:       "short password",
			form:       RegistrationForm{Username: "alice", Password: "ab", Verify: "ab"},
			wantFields: []string{"password"},
		},
		{
			name:       "mismatched verify",
			form:       RegistrationForm{Username: "alice", Password: "secret", Verify: "other"},
			wantFields: []string{"verify"},
		},
		{
			name:       "bad email",
			form:       RegistrationForm{Username: "alice", Password: "secret", Verify: "secret", Email: "nope"},
			wantFields: []string{"email"},
		},
		{
			name:       "multiple failures reported together",
			form:       RegistrationForm{Username: "a", Password: "x", Verify: "x", Email: "nope"},
			wantFields: []string{"username", "password", "email"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newUserService(t)

			_, err := s.Register(context.Background(), tc.form)
			require.Error(t, err)
			assert.ElementsMatch(t, tc.wantFields, fieldNames(t, err))
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegistrationForm{Username: "alice", Password: "secret", Verify: "secret"})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegistrationForm{Username: "alice", Password: "other1", Verify: "other1"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "username", verrs[0].Field)
	assert.True(t, strings.Contains(verrs[0].Message, "already exists"))
}

func TestLogin_Success(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	created, err := s.Register(ctx, RegistrationForm{Username: "alice", Password: "secret123", Verify: "secret123"})
	require.NoError(t, err)

	user, err := s.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestLogin_GenericFailure(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegistrationForm{Username: "alice", Password: "secret123", Verify: "secret123"})
	require.NoError(t, err)

	// Wrong password and unknown user fail identically.
	_, errWrongPw := s.Login(ctx, "alice", "wrong")
	_, errNoUser := s.Login(ctx, "ghost", "secret123")

	assert.True(t, errors.Is(errWrongPw, common.ErrorUnauthorized))
	assert.True(t, errors.Is(errNoUser, common.ErrorUnauthorized))
	assert.Equal(t, errWrongPw.Error(), errNoUser.Error())
}

func TestAPIToken_CarriesUserID(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, RegistrationForm{Username: "alice", Password: "secret123", Verify: "secret123"})
	require.NoError(t, err)

	tok, err := s.APIToken(user)
	require.NoError(t, err)

	uid, err := auth.GetUserIDFromToken(tok, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, uid)
}
