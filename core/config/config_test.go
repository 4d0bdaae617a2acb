package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "content-changed", cfg.Reconcile.Policy)
	assert.Equal(t, 500, cfg.Reconcile.BatchSize)
	assert.Equal(t, int32(-1), cfg.Reconcile.Precision)
	assert.Empty(t, cfg.Reconcile.ExcludedFields)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("RECONCILE_POLICY", "newer-wins")
	t.Setenv("RECONCILE_BATCH_SIZE", "25")
	t.Setenv("RECONCILE_IGNORE_DELETES", "true")
	t.Setenv("RECONCILE_EXCLUDED_FIELDS", "updated_at,etag")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "newer-wins", cfg.Reconcile.Policy)
	assert.Equal(t, 25, cfg.Reconcile.BatchSize)
	assert.True(t, cfg.Reconcile.IgnoreDeletes)
	assert.Equal(t, []string{"updated_at", "etag"}, cfg.Reconcile.ExcludedFields)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	// Registered so the overload is undone after the test.
	t.Setenv("LOG_FORMAT", "")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=console\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
