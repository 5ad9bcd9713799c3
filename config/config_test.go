package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Environment: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg = &Config{Environment: "production"}
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestLoadWithOptions(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("DB_HOST", "testhost")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_NAME", "builder_test")
	t.Setenv("STORAGE_BUCKET", "media")
	t.Setenv("STORAGE_FORCE_PATH_STYLE", "true")
	t.Setenv("BUILDER_SESSION_TTL", "30m")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "testhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "testuser", cfg.Database.User)
	assert.Equal(t, "builder_test", cfg.Database.DBName)
	assert.Equal(t, "test-secret", cfg.Security.JWTSecret)
	assert.True(t, cfg.HasStorage())
	assert.True(t, cfg.Storage.ForcePathStyle)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, 30*time.Minute, cfg.Builder.SessionTTL)
	assert.Equal(t, 1000, cfg.Builder.MaxSessions)
	assert.Equal(t, 10*time.Minute, cfg.Builder.MediaCacheTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Builder.MaxEmbedBytes)
	assert.Equal(t, 5.0, cfg.Builder.DragActivation)
	assert.Equal(t, 60, cfg.Builder.MediaRateLimit)
	assert.Equal(t, "emailbuilder-api", cfg.Tracing.ServiceName)
	assert.Equal(t, "none", cfg.Tracing.TraceExporter)
	assert.Equal(t, "none", cfg.Tracing.MetricsExporter)
	assert.Equal(t, VERSION, cfg.Version)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadWithOptions_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadWithOptions(LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadWithOptions_EnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("JWT_SECRET=from-file\nLOG_LEVEL=debug\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := LoadWithOptions(LoadOptions{EnvFile: ".env.test"})
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Security.JWTSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadWithOptions_InvalidSessions(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("BUILDER_MAX_SESSIONS", "0")
	_, err := LoadWithOptions(LoadOptions{})
	assert.Error(t, err)
}
