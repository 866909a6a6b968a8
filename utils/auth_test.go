package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Generate("user-1", "admin", "a@b.com")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestTokenIssuerRejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := other.Generate("user-1", "admin", "a@b.com")
	require.NoError(t, err)
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err = expired.Generate("user-1", "admin", "a@b.com")
	require.NoError(t, err)
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenIssuer("", time.Hour).Generate("user-1", "admin", "")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Generate("user-1", "superadmin", "a@b.com")
	require.NoError(t, err)
	disabled, err := issuer.Generate("user-2", "admin", "b@b.com")
	require.NoError(t, err)
	broken, err := issuer.Generate("user-3", "admin", "c@b.com")
	require.NoError(t, err)

	active := func(ctx context.Context, userID string) (bool, error) {
		if userID == "user-3" {
			return false, errors.New("db down")
		}
		return userID == "user-1", nil
	}

	r := gin.New()
	r.GET("/me", AuthMiddleware(issuer, active), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(ContextUserID), "role": c.GetString(ContextRole)})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid bearer", header: "Bearer " + token, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, want: http.StatusOK},
		{name: "inactive user", header: "Bearer " + disabled, want: http.StatusUnauthorized},
		{name: "status lookup fails", header: "Bearer " + broken, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestResetToken(t *testing.T) {
	token, hash, err := GenerateResetToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Equal(t, hash, HashResetToken(token))
	assert.NotEqual(t, token, hash)
}
