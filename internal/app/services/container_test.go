package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/FACorreiaa/techblog/internal/app/domain/auth"
	"github.com/FACorreiaa/techblog/internal/app/services/servicestest"
	"github.com/FACorreiaa/techblog/internal/pkg/session"
)

func TestContainerSignOutClearsCaches(t *testing.T) {
	ctx := context.Background()
	backend := servicestest.New(t, 3)
	c := NewWithStore(backend.Config(t.TempDir()), session.NewMemoryStore(), nil)
	defer c.Close()

	assert.Equal(t, auth.StateUnauthenticated, c.Session.Restore(ctx).State)
	_, err := c.Session.SignIn(ctx, "prof@x.com", servicestest.Password)
	require.NoError(t, err)

	_, err = c.Posts.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Caches.Posts.Size())

	c.Session.SignOut(ctx)
	assert.Zero(t, c.Caches.Posts.Size())
	assert.Empty(t, c.Client.Token())
}

func TestContainerPersistsSessionOnDisk(t *testing.T) {
	ctx := context.Background()
	backend := servicestest.New(t, 1)
	cfg := backend.Config(t.TempDir())

	first := New(cfg, nil)
	first.Session.Restore(ctx)
	_, err := first.Session.SignIn(ctx, "aluno@x.com", servicestest.Password)
	require.NoError(t, err)
	first.Close()

	second := New(cfg, nil)
	defer second.Close()
	snap := second.Session.Restore(ctx)
	require.Equal(t, auth.StateAuthenticated, snap.State)
	assert.Equal(t, "aluno@x.com", snap.User.Email)

	_, err = second.Posts.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Contains(t, backend.LastAuthorization("GET /posts/p1"), "Bearer ")
}

func TestContainerLogsClientAndCacheStats(t *testing.T) {
	ctx := context.Background()
	backend := servicestest.New(t, 2)
	cfg := backend.Config(t.TempDir())
	core, logs := observer.New(zapcore.DebugLevel)

	c := NewWithStore(cfg, session.NewMemoryStore(), zap.New(core))
	assert.Equal(t, cfg.API.BaseURL, c.Client.BaseURL())

	c.Session.Restore(ctx)
	_, err := c.Session.SignIn(ctx, "prof@x.com", servicestest.Password)
	require.NoError(t, err)
	_, err = c.Posts.Get(ctx, "p1")
	require.NoError(t, err)
	_, err = c.Posts.Get(ctx, "p1")
	require.NoError(t, err)
	c.Close()

	configured := logs.FilterMessage("API client configured").All()
	require.Len(t, configured, 1)
	assert.Equal(t, cfg.API.BaseURL, configured[0].ContextMap()["base_url"])

	stats := logs.FilterMessage("Cache stats").All()
	require.Len(t, stats, 1)
	fields := stats[0].ContextMap()
	assert.Equal(t, "posts", fields["cache"])
	assert.Equal(t, int64(1), fields["hits"])
	assert.Equal(t, int64(1), fields["sets"])
}
