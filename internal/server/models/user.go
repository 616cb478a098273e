// Package models defines the persisted entities of the service.
package models

import "time"

// User is a registered account. Credentials are created once at signup and
// never mutated or deleted.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // "salt|digest", see cryptox
	CreatedAt    time.Time
}
