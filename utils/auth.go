// utils/auth.go
package utils

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	ContextUserID = "userId"
	ContextRole   = "role"
	ContextEmail  = "email"

	bcryptCost = 10
)

var ErrInvalidToken = errors.New("invalid token")

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Generate JWT token
func (t *TokenIssuer) Generate(userID, role, email string) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("JWT_SECRET not set")
	}
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	})
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(header)
}

// ActiveUserFunc reports whether the token's subject may still use the API.
type ActiveUserFunc func(ctx context.Context, userID string) (bool, error)

// Auth middleware. A nil active check trusts the token alone.
func AuthMiddleware(issuer *TokenIssuer, active ActiveUserFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		if active != nil {
			ok, err := active(c.Request.Context(), claims.Subject)
			if err != nil {
				RespondWithServerError(c, http.StatusInternalServerError, "Failed to verify user", err)
				return
			}
			if !ok {
				RespondWithError(c, http.StatusUnauthorized, "User is inactive or no longer exists")
				return
			}
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// GenerateResetToken returns a random token for the user and the SHA-256
// hash that gets stored in its place.
func GenerateResetToken() (token, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	return token, HashResetToken(token), nil
}

func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
