// Package session holds the client's authentication state and the stores it
// is persisted in.
//
// A Session is the in-memory form of the five persisted keys (access token,
// refresh token, expiry, username, role). Stores replace it as a whole, so a
// reader never observes a new token paired with an old expiry.
package session

import (
	"context"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
)

// Session is the authenticated state of the console.
//
// ExpiresAt is the absolute expiry of AccessToken; the zero value means the
// server did not send one.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Username     string
	Role         string
}

// Store persists the session. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context) (Session, error)
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// New builds a fresh session from a login response.
func New(tp models.TokenPair, now time.Time) Session {
	s := Session{
		AccessToken:  tp.AccessToken,
		RefreshToken: tp.RefreshToken,
		Username:     tp.Username,
		Role:         tp.Role,
	}
	if tp.ExpiresIn > 0 {
		s.ExpiresAt = expiryFrom(now, tp.ExpiresIn)
	}
	return s
}

// Refreshed returns a copy of s with the access token replaced. The refresh
// token and expiry are replaced only when the response carries them.
func (s Session) Refreshed(tp models.TokenPair, now time.Time) Session {
	s.AccessToken = tp.AccessToken
	if tp.RefreshToken != "" {
		s.RefreshToken = tp.RefreshToken
	}
	if tp.ExpiresIn > 0 {
		s.ExpiresAt = expiryFrom(now, tp.ExpiresIn)
	}
	return s
}

func (s Session) HasToken() bool {
	return s.AccessToken != ""
}

func (s Session) HasExpiry() bool {
	return !s.ExpiresAt.IsZero()
}

// Expired reports whether an expiry is recorded and now is at or past it.
func (s Session) Expired(now time.Time) bool {
	return s.HasExpiry() && !now.Before(s.ExpiresAt)
}

// Empty reports whether nothing at all is stored.
func (s Session) Empty() bool {
	return s == Session{}
}

func expiryFrom(now time.Time, expiresIn int64) time.Time {
	return time.UnixMilli(now.UnixMilli() + expiresIn*1000)
}
