package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.ServerURL)
	assert.Equal(t, "websocket", cfg.Transport)
	assert.Equal(t, 5*time.Second, cfg.IdentityWindow)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHATSYNC_SERVER_URL", "http://example.com/api")
	t.Setenv("CHATSYNC_TRANSPORT", "nats")
	t.Setenv("CHATSYNC_IDENTITY_WINDOW", "10s")
	t.Setenv("CHATSYNC_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/api", cfg.ServerURL)
	assert.Equal(t, "nats", cfg.Transport)
	assert.Equal(t, 10*time.Second, cfg.IdentityWindow)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_url: http://yaml.example/api
user_id: u42
user_name: Ann
`), 0o644))
	t.Setenv("CHATSYNC_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://yaml.example/api", cfg.ServerURL)
	assert.Equal(t, "u42", cfg.UserID)
	assert.Equal(t, "Ann", cfg.UserName)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://yaml.example/api\n"), 0o644))
	t.Setenv("CHATSYNC_CONFIG", path)
	t.Setenv("CHATSYNC_SERVER_URL", "http://env.example/api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/api", cfg.ServerURL)
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	t.Setenv("CHATSYNC_TRANSPORT", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestLoadRejectsBadWindow(t *testing.T) {
	t.Setenv("CHATSYNC_IDENTITY_WINDOW", "soon")

	_, err := Load()
	require.Error(t, err)
}
