// Package token reads the claims of a backend-issued bearer token.
// The signature is never verified here; the claims only feed the local
// display user and route gating, and the backend re-checks every request.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

// Claims are the fields the backend puts in its access tokens.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Decode parses the claims segment of raw without checking its signature or expiry.
// The header's alg is not consulted, so an unknown or missing one is accepted.
func Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return nil, &models.MalformedTokenError{Err: jwt.ErrTokenMalformed}
	}
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return nil, &models.MalformedTokenError{Err: err}
	}
	return claims, nil
}

// User derives the display-quality local user. Tokens carry no name, so the
// default display name is used and the username claim becomes the email.
func (c *Claims) User() *models.User {
	return &models.User{
		ID:    c.Subject,
		Name:  models.DefaultDisplayName,
		Email: c.Username,
		Role:  c.Role,
	}
}

// ExpiresAt returns the exp claim, or the zero time when absent.
func (c *Claims) ExpiresAt() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// Expired reports whether exp lies before now. Callers only display this;
// nothing in the client refuses an expired token.
func (c *Claims) Expired(now time.Time) bool {
	exp := c.ExpiresAt()
	return !exp.IsZero() && exp.Before(now)
}
