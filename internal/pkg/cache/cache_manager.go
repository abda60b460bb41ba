package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

// CacheManager holds the client's short-lived read caches.
type CacheManager struct {
	// Post details opened from the feed
	Posts *UnifiedCache[models.Post]
}

// NewCacheManager creates a new cache manager with default TTLs
func NewCacheManager(logger *zap.Logger) *CacheManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheManager{
		Posts: NewUnifiedCache[models.Post](time.Minute, "posts", logger),
	}
}

// GetAllMetrics returns metrics for all caches
func (cm *CacheManager) GetAllMetrics() map[string]CacheMetrics {
	return map[string]CacheMetrics{
		"posts": cm.Posts.GetMetrics(),
	}
}

// ClearAll drops every cached entry. Called on sign-out so one account
// never sees another's reads.
func (cm *CacheManager) ClearAll() {
	cm.Posts.Clear()
}

// Close stops the cleanup goroutines.
func (cm *CacheManager) Close() {
	cm.Posts.Close()
}
