// Package session tracks the authenticated user on this device. It holds
// the backend access token and exposes the user id the entity modules use
// to scope local records.
package session

import (
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tiendita-app/tiendita/internal/common"
)

type Session struct {
	mu     sync.RWMutex
	token  string
	userID string
}

func New() *Session {
	return &Session{}
}

// SetToken stores the access token and extracts the user id from its sub
// claim. The token is parsed without signature verification: the server
// verifies it on every request, the client only needs the identity for
// local scoping.
func (s *Session) SetToken(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("failed to parse access token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return common.ErrInvalidToken
	}

	s.mu.Lock()
	s.token = token
	s.userID = sub
	s.mu.Unlock()
	return nil
}

// Clear drops the token, returning the session to the guest scope.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.userID = ""
	s.mu.Unlock()
}

// Token returns the current access token, or "" when logged out. Passed
// as a callback to the backend client so requests always carry the latest
// token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserID returns the authenticated user's id, or the guest sentinel when
// nobody is logged in.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == "" {
		return common.GuestUserID
	}
	return s.userID
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID != ""
}
