// Package session implements stateless, tamper-evident session tokens.
//
// A token is the pair "subject|signature" where signature is the keyed hash
// of subject under the server secret. Nothing is stored server-side: the
// token is the credential, and verification is pure signature recomputation.
package session

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/mgreer/miniblog/internal/cryptox"
)

// Cookie names. Two independent tokens are minted per login: one carrying
// the display name, one the numeric user id. Both must verify before any
// identity-gated action; authorization keys off the id token only, since a
// display name is weaker as an authorization subject.
const (
	UserCookie   = "user"
	UserIDCookie = "user_id"
)

// Manager mints and verifies session tokens. The secret is immutable after
// construction; the manager is stateless and safe for concurrent use.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Mint returns "subject|signature" with a lowercase hex signature.
func (m *Manager) Mint(subject string) string {
	return subject + cryptox.Separator + cryptox.HashKeyed(m.secret, subject)
}

// Verify returns the subject embedded in token, if and only if re-minting
// that subject reproduces the token exactly. The comparison is constant
// time. Absent, malformed, or forged tokens yield ok=false.
func (m *Manager) Verify(token string) (subject string, ok bool) {
	subject, _, found := strings.Cut(token, cryptox.Separator)
	if !found || subject == "" {
		return "", false
	}
	expected := m.Mint(subject)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) != 1 {
		return "", false
	}
	return subject, true
}

// SetPair sets both session cookies for the given identity, wire format
// "name=subject|signature; Path=/".
func (m *Manager) SetPair(w http.ResponseWriter, userID int64, username string) {
	http.SetCookie(w, &http.Cookie{
		Name:  UserCookie,
		Value: m.Mint(username),
		Path:  "/",
	})
	http.SetCookie(w, &http.Cookie{
		Name:  UserIDCookie,
		Value: m.Mint(strconv.FormatInt(userID, 10)),
		Path:  "/",
	})
}

// ClearPair logs the client out by overwriting both cookies with empty
// values.
func (m *Manager) ClearPair(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: UserCookie, Value: "", Path: "/"})
	http.SetCookie(w, &http.Cookie{Name: UserIDCookie, Value: "", Path: "/"})
}

// Identify resolves the request's identity from the cookie pair. Both
// cookies must independently verify and the id subject must be numeric;
// anything less yields ok=false.
func (m *Manager) Identify(r *http.Request) (userID int64, username string, ok bool) {
	uc, err := r.Cookie(UserCookie)
	if err != nil {
		return 0, "", false
	}
	name, ok := m.Verify(uc.Value)
	if !ok {
		return 0, "", false
	}

	ic, err := r.Cookie(UserIDCookie)
	if err != nil {
		return 0, "", false
	}
	idSubject, ok := m.Verify(ic.Value)
	if !ok {
		return 0, "", false
	}
	id, err := strconv.ParseInt(idSubject, 10, 64)
	if err != nil {
		return 0, "", false
	}

	return id, name, true
}
