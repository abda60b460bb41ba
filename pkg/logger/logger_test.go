package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestInitOnce(t *testing.T) {
	require.NoError(t, Init(zapcore.InfoLevel, zap.String("service", "techblog")))
	first := Log

	require.NoError(t, Init(zapcore.DebugLevel))
	assert.Same(t, first, Log)
}

func TestBuildReportsConfigError(t *testing.T) {
	cfg := configure(zapcore.InfoLevel)
	cfg.Encoding = "yaml"

	l, err := build(cfg)
	require.Error(t, err)
	assert.Nil(t, l)
	assert.Contains(t, err.Error(), "build logger")
	assert.Contains(t, err.Error(), "yaml")
}

func TestBuildAttachesMeta(t *testing.T) {
	l, err := build(configure(zapcore.WarnLevel), zap.String("service", "techblog"))
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
}
