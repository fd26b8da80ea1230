package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "restaurant-biller"

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager keeps no server-side session table: the token is the session,
// and the denylist records logouts until the token would have expired anyway.
type JWTManager struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
	now      func() time.Time
}

type Option func(*JWTManager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) { m.now = now }
}

func NewJWTManager(secret string, ttl time.Duration, denylist Denylist, opts ...Option) *JWTManager {
	if denylist == nil {
		denylist = NopDenylist{}
	}
	m := &JWTManager{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *JWTManager) TTL() time.Duration { return m.ttl }

func (m *JWTManager) Issue(_ context.Context, userID, email string) (string, *Session, error) {
	if userID == "" {
		return "", nil, fmt.Errorf("issue session: empty user id")
	}
	now := m.now().UTC().Truncate(time.Second)
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, s, nil
}

func (m *JWTManager) Current(ctx context.Context, token string) (*Session, string, error) {
	if token == "" {
		return nil, "", ErrNoSession
	}

	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, "", ErrSessionExpired
	case err != nil:
		return nil, "", ErrInvalidSession
	}
	if c.Subject == "" || c.ID == "" {
		return nil, "", ErrInvalidSession
	}

	revoked, err := m.denylist.IsRevoked(ctx, c.ID)
	if err != nil {
		return nil, "", fmt.Errorf("check session denylist: %w", err)
	}
	if revoked {
		return nil, "", ErrSessionRevoked
	}

	s := &Session{
		ID:        c.ID,
		UserID:    c.Subject,
		Email:     c.Email,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}

	// Sliding expiry: past the half-life the caller gets a fresh token to set.
	if s.ExpiresAt.Sub(m.now()) < m.ttl/2 {
		rotated, fresh, err := m.Issue(ctx, s.UserID, s.Email)
		if err != nil {
			return nil, "", err
		}
		fresh.replaced = s
		return fresh, rotated, nil
	}
	return s, "", nil
}

func (m *JWTManager) Revoke(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	for cur := s; cur != nil; cur = cur.replaced {
		if err := m.denylist.Revoke(ctx, cur.ID, cur.ExpiresAt); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
	}
	return nil
}
