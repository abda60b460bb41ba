// Package session persists the signed-in user and the raw bearer token
// across restarts under two fixed keys.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

// Keys of the two persisted entries.
const (
	UserKey  = "@auth_user"
	TokenKey = "@auth_token"
)

// Store saves, loads and clears the user/token pair.
// Load returns models.ErrNoSession when either entry is missing or unreadable.
type Store interface {
	Save(ctx context.Context, user *models.User, token string) error
	Load(ctx context.Context) (*models.User, string, error)
	Clear(ctx context.Context) error
}

func encodeEntries(user *models.User, token string) (map[string]string, error) {
	if user == nil || token == "" {
		return nil, fmt.Errorf("session needs both a user and a token")
	}
	b, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	return map[string]string{UserKey: string(b), TokenKey: token}, nil
}

func decodeEntries(entries map[string]string) (*models.User, string, error) {
	rawUser, token := entries[UserKey], entries[TokenKey]
	if rawUser == "" || token == "" {
		return nil, "", models.ErrNoSession
	}
	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, "", fmt.Errorf("%w: stored user unreadable: %v", models.ErrNoSession, err)
	}
	return &user, token, nil
}
