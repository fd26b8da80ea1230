// Package session issues and validates the signed cookie that identifies a
// logged-in restaurant owner.
package session

import (
	"context"
	"errors"
	"time"
)

// ContextKey is the gin context key under which the request guard stores the
// current *Session.
const ContextKey = "session"

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
	ErrSessionRevoked = errors.New("session revoked")
)

type Session struct {
	ID        string
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// replaced is the session whose token was rotated into this one. It is
	// still valid until it expires, so revoking this session revokes it too.
	replaced *Session
}

// Replaced returns the session this one was rotated from, if any.
func (s *Session) Replaced() *Session {
	return s.replaced
}

// Manager is the session store. Current returns a non-empty rotated token
// when the caller must write a refreshed cookie on the outgoing response.
// Revoke must also revoke the session a rotated one replaced.
// Errors other than the ones declared in this package mean the store itself
// failed.
type Manager interface {
	Issue(ctx context.Context, userID, email string) (string, *Session, error)
	Current(ctx context.Context, token string) (*Session, string, error)
	Revoke(ctx context.Context, s *Session) error
	TTL() time.Duration
}

// IsUnauthenticated reports whether err describes a missing or unusable
// session rather than a store failure.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrNoSession) ||
		errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrSessionRevoked)
}
