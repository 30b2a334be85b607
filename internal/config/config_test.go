package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("DATA_PATH", "/tmp/club")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, filepath.Join("/tmp/club", "sportsclub.db"), cfg.DbPath)
	assert.Equal(t, "file:"+cfg.DbPath, cfg.DatabaseDSN)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestNewEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server_addr: \":9000\"\nrate_limit_rps: 5\nallowed_origins:\n  - https://admin.example.org\nshutdown_timeout: 3s\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDR", ":9100")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("DATABASE_DSN", "file:test?mode=memory")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.ServerAddr)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://admin.example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, "file:test?mode=memory", cfg.DatabaseDSN)
	assert.Empty(t, cfg.DbPath)
}

func TestNewRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"AUTH_ENABLED":     "perhaps",
		"RATE_LIMIT_RPS":   "fast",
		"SHUTDOWN_TIMEOUT": "soon",
		"LOG_LEVEL":        "chatty",
		"LOG_FORMAT":       "xml",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(" , "))
}
