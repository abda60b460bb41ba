package session

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

// MemoryStore keeps the pair for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Save(_ context.Context, user *models.User, token string) error {
	entries, err := encodeEntries(user, token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.cache.Set(k, v, cache.NoExpiration)
	}
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (*models.User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make(map[string]string, 2)
	for _, k := range []string{UserKey, TokenKey} {
		if v, ok := s.cache.Get(k); ok {
			entries[k], _ = v.(string)
		}
	}
	return decodeEntries(entries)
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(UserKey)
	s.cache.Delete(TokenKey)
	return nil
}

