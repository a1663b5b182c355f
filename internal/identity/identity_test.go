package identity

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestSession_UserIDOrder(t *testing.T) {
	tests := []struct {
		name     string
		user     map[string]any
		userID   string
		expected string
	}{
		{"profile id first", map[string]any{"id": "p1", "sub": "s1"}, "u1", "p1"},
		{"explicit user id", map[string]any{"sub": "s1", "username": "n1"}, "u1", "u1"},
		{"sub", map[string]any{"sub": "s1", "username": "n1"}, "", "s1"},
		{"username", map[string]any{"username": "n1"}, "", "n1"},
		{"cognito username", map[string]any{"cognito:username": "c1"}, "", "c1"},
		{"blank values skipped", map[string]any{"id": " ", "sub": 42, "username": "n1"}, "", "n1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			s.SetUser(tt.user)
			s.SetUserID(tt.userID)

			id, err := s.UserID()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestSession_Unauthenticated(t *testing.T) {
	s := NewSession()
	_, err := s.UserID()
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	s.SetUser(map[string]any{"email": "a@x.com"})
	_, err = s.UserID()
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestSession_SignInFromToken(t *testing.T) {
	s := NewSession()
	token := signedToken(t, jwt.MapClaims{"sub": "abc-123", "cognito:username": "ada"})

	require.NoError(t, s.SignIn(token))
	assert.Equal(t, token, s.Token())

	id, err := s.UserID()
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)

	s.Clear()
	assert.Empty(t, s.Token())
	_, err = s.UserID()
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestSession_SignInRejectsGarbage(t *testing.T) {
	s := NewSession()
	assert.Error(t, s.SignIn("not-a-jwt"))
	assert.Empty(t, s.Token())
}

func TestResolve(t *testing.T) {
	id, err := Resolve(" u9 ", nil)
	require.NoError(t, err)
	assert.Equal(t, "u9", id)

	id, err = Resolve("", Static("u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	_, err = Resolve("", Static(""))
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = Resolve("", nil)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}
