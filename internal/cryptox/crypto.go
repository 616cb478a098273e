// Package cryptox implements the keyed-hash and password-hash primitives
// used for session token signing and credential storage.
package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/mgreer/miniblog/internal/common"
)

// Separator packs salt and digest into one opaque string. The salt is hex,
// so the separator can never occur inside it.
const Separator = "|"

const saltBytes = 16

// argon2id parameters, also used for any future KDF work.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// HashKeyed returns the lowercase hex HMAC-SHA256 digest of message under
// secret. Deterministic: same inputs always yield the same output.
func HashKeyed(secret []byte, message string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// HashPassword derives a storable credential string of the form
// "salt|digest". When salt is empty a fresh random hex salt is generated.
// The digest is a lowercase hex argon2id hash over username+password.
func HashPassword(username, password, salt string) (string, error) {
	if salt == "" {
		s, err := common.MakeRandHexString(saltBytes)
		if err != nil {
			return "", err
		}
		salt = s
	}
	digest := argon2.IDKey([]byte(username+password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return salt + Separator + hex.EncodeToString(digest), nil
}

// VerifyPassword recomputes the hash of (username, password) under the salt
// extracted from stored and compares the result in constant time. Malformed
// stored values fail closed: the function returns false rather than erroring.
func VerifyPassword(username, password, stored string) bool {
	salt, _, found := strings.Cut(stored, Separator)
	if !found || salt == "" {
		return false
	}
	candidate, err := HashPassword(username, password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}
