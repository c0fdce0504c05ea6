// Package model defines the data structures used throughout the application.
package model

import "time"

// Snippet represents a shared piece of text and its lifecycle metadata.
//
// ExpiresAt is a *time.Time rather than a time.Time because "never expires"
// is a real state, not just a zero value. A nil pointer means the snippet
// lives until someone deletes it; json marshals it as null, which is what
// API clients expect.
//
// PasswordHash and PasswordSalt are hex-encoded and present if and only if
// IsProtected is true. They carry `json:"-"` so a handler can't leak them by
// encoding the struct directly — the raw password itself is never stored.
type Snippet struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Syntax       string     `json:"syntax"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastActivity time.Time  `json:"lastActivity"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	IsProtected  bool       `json:"isProtected"`
	PasswordHash string     `json:"-"`
	PasswordSalt string     `json:"-"`
}

// Expired reports whether the snippet's deadline has passed.
// Snippets without a deadline never expire.
func (s *Snippet) Expired(now time.Time) bool {
	if s.ExpiresAt == nil {
		return false
	}
	return now.After(*s.ExpiresAt)
}
