package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 400, cfg.PopoutWidth)
	assert.Equal(t, 600, cfg.PopoutHeight)
	assert.Equal(t, 1, cfg.MaxPopouts)
	assert.Equal(t, 0.7, cfg.DefaultVolume)
	assert.Equal(t, "/backgrounds/windows7-default.jpg", cfg.DefaultBackground)
	assert.Equal(t, "/placeholder.svg?height=200&width=200", cfg.PlaceholderCover)
	assert.Equal(t, 250*time.Millisecond, cfg.TimeUpdateInterval)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("POPOUT_WIDTH", "500")
	t.Setenv("DEFAULT_VOLUME", "0.25")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("TIME_UPDATE_INTERVAL", "1s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, "http://localhost:9999", cfg.PublicURL)
	assert.Equal(t, 500, cfg.PopoutWidth)
	assert.Equal(t, 0.25, cfg.DefaultVolume)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, time.Second, cfg.TimeUpdateInterval)
	assert.Equal(t, 0, cfg.RedisDB)
}
