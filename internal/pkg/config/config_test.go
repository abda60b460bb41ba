package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TECHBLOG_SESSION_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultAPIURL, cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 10, cfg.PageLimit)
	assert.Equal(t, "8093", cfg.Shell.Port)
	assert.Empty(t, cfg.Observability.MetricsAddr)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TECHBLOG_SESSION_DIR", dir)
	t.Setenv("TECHBLOG_API_URL", "http://localhost:3000/")
	t.Setenv("TECHBLOG_TIMEOUT", "2s")
	t.Setenv("TECHBLOG_PAGE_LIMIT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.PageLimit)
	assert.Equal(t, dir, cfg.Session.Dir)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TECHBLOG_SESSION_DIR", t.TempDir())

	t.Run("timeout", func(t *testing.T) {
		t.Setenv("TECHBLOG_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("page limit", func(t *testing.T) {
		t.Setenv("TECHBLOG_PAGE_LIMIT", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("relative url", func(t *testing.T) {
		t.Setenv("TECHBLOG_API_URL", "localhost")
		_, err := Load()
		assert.Error(t, err)
	})
}
