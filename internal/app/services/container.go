// Package services wires the client stack for one process: HTTP client,
// session store, lifecycle, read caches and the per-screen services.
package services

import (
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/domain/auth"
	"github.com/FACorreiaa/techblog/internal/app/domain/posts"
	"github.com/FACorreiaa/techblog/internal/app/domain/statistics"
	"github.com/FACorreiaa/techblog/internal/app/domain/user"
	"github.com/FACorreiaa/techblog/internal/pkg/apiclient"
	"github.com/FACorreiaa/techblog/internal/pkg/cache"
	"github.com/FACorreiaa/techblog/internal/pkg/config"
	"github.com/FACorreiaa/techblog/internal/pkg/session"
)

type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Client  *apiclient.Client
	Store   session.Store
	Session *auth.Lifecycle
	Caches  *cache.CacheManager
	Posts   *posts.Service
	Users   *user.ServiceUserImpl
	Stats   *statistics.ServiceImpl

	unsubscribe func()
}

// New builds a container persisting the session under cfg.Session.Dir.
func New(cfg *config.Config, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewWithStore(cfg, session.NewFileStore(cfg.Session.Dir, logger.Named("session")), logger)
}

// NewWithStore builds a container on an explicit store. The lifecycle starts
// INITIALIZING; call Session.Restore before serving.
func NewWithStore(cfg *config.Config, store session.Store, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  logger.Named("api"),
	})
	logger.Debug("API client configured", zap.String("base_url", client.BaseURL()))
	caches := cache.NewCacheManager(logger.Named("cache"))
	postSvc := posts.NewService(client, caches.Posts, cfg.PageLimit, logger.Named("posts"))
	userSvc := user.NewUserService(client, logger.Named("users"))

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Store:   store,
		Session: auth.NewLifecycle(store, client, logger.Named("auth")),
		Caches:  caches,
		Posts:   postSvc,
		Users:   userSvc,
		Stats:   statistics.NewService(postSvc, userSvc, logger.Named("statistics")),
	}
	c.unsubscribe = c.Session.Subscribe(func(s auth.Snapshot) {
		if s.State == auth.StateUnauthenticated {
			caches.ClearAll()
		}
	})
	return c
}

// Close stops background cache cleanup.
func (c *Container) Close() {
	c.unsubscribe()
	for name, m := range c.Caches.GetAllMetrics() {
		c.Logger.Debug("Cache stats",
			zap.String("cache", name),
			zap.Int64("hits", m.Hits),
			zap.Int64("misses", m.Misses),
			zap.Int64("sets", m.Sets))
	}
	c.Caches.Close()
}
