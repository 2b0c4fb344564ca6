package accounts_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
)

func TestJWTClaims_Accessors(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	claims := &accounts.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UID:      "user-123",
		UserRole: "admin",
	}

	assert.Equal(t, "user-123", claims.Subject())
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "admin", claims.Role())
	assert.Equal(t, now, claims.IssuedAt().UTC())
	assert.Equal(t, now.Add(time.Hour), claims.Expires().UTC())
}

func TestJWTClaims_UserIDFallsBackToSubject(t *testing.T) {
	claims := &accounts.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-456"},
	}

	assert.Equal(t, "user-456", claims.UserID())
}

func TestJWTClaims_HasRole(t *testing.T) {
	claims := &accounts.JWTClaims{UserRole: "admin"}

	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("user"))
}

func TestJWTClaims_IsAtLeast(t *testing.T) {
	admin := &accounts.JWTClaims{UserRole: "admin"}
	user := &accounts.JWTClaims{UserRole: "user"}

	assert.True(t, admin.IsAtLeast("user"))
	assert.True(t, admin.IsAtLeast("admin"))
	assert.True(t, user.IsAtLeast("user"))
	assert.False(t, user.IsAtLeast("admin"))
}

func TestJWTClaims_ZeroTimes(t *testing.T) {
	claims := &accounts.JWTClaims{}

	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}
