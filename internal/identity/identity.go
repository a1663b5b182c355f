// Package identity resolves the current user id from the signed-in session.
package identity

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// Resolver returns the id of the signed-in user or models.ErrUnauthenticated
type Resolver interface {
	UserID() (string, error)
}

// Static is a Resolver for a fixed user id
type Static string

func (s Static) UserID() (string, error) {
	if id := strings.TrimSpace(string(s)); id != "" {
		return id, nil
	}
	return "", models.ErrUnauthenticated
}

// Session holds the signed-in user's token and profile attributes.
// It is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	token  string
	userID string
	user   map[string]any
}

// NewSession creates an empty, signed-out Session
func NewSession() *Session {
	return &Session{}
}

// SignIn stores an access or ID token. Its claims become the user profile.
// The signature is not verified: the backend owns token validation.
func (s *Session) SignIn(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("failed to parse access token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = claims
	return nil
}

// SetUserID stores an explicit user id, consulted after the profile "id".
func (s *Session) SetUserID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = strings.TrimSpace(id)
}

// SetUser replaces the profile attributes.
func (s *Session) SetUser(attrs map[string]any) {
	user := make(map[string]any, len(attrs))
	for k, v := range attrs {
		user[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Token returns the stored token, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear signs the session out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userID = ""
	s.user = nil
}

// UserID resolves the user id from profile "id", the explicit user id,
// then the "sub", "username" and "cognito:username" claims.
func (s *Session) UserID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id := attr(s.user, "id"); id != "" {
		return id, nil
	}
	if s.userID != "" {
		return s.userID, nil
	}
	for _, key := range []string{"sub", "username", "cognito:username"} {
		if id := attr(s.user, key); id != "" {
			return id, nil
		}
	}
	return "", models.ErrUnauthenticated
}

func attr(user map[string]any, key string) string {
	v, ok := user[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// Resolve returns explicit when it is set, otherwise the resolver's user id.
func Resolve(explicit string, r Resolver) (string, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		return id, nil
	}
	if r == nil {
		return "", models.ErrUnauthenticated
	}
	id, err := r.UserID()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", models.ErrUnauthenticated
	}
	return id, nil
}
