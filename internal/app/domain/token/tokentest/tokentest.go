// Package tokentest issues backend-shaped access tokens for tests.
package tokentest

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

const secret = "tokentest-secret"

// Issue signs an HS256 token carrying sub, username and role, expiring in ttl.
func Issue(sub, username string, role models.Role, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"sub":      sub,
		"username": username,
		"role":     string(role),
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return signed
}

// Instructor issues a one-hour instructor token.
func Instructor(sub, username string) string {
	return Issue(sub, username, models.RoleInstructor, time.Hour)
}

// Student issues a one-hour student token.
func Student(sub, username string) string {
	return Issue(sub, username, models.RoleStudent, time.Hour)
}
