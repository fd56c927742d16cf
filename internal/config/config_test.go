/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("RESOURCEKIT_STORAGE_BACKEND", "mysql")
		t.Setenv("RESOURCEKIT_CACHE_EXPIRY", "5m")
		t.Setenv("RESOURCEKIT_LOGGING_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "mysql", cfg.Storage.Backend)
		assert.Equal(t, 5*time.Minute, cfg.Cache.Expiry)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("dotenv", func(t *testing.T) {
		require.NoError(t, os.WriteFile(".env", []byte("RESOURCEKIT_SQL_DSN=user:pw@/db\n"), 0o600))
		defer os.Remove(".env")
		defer os.Unsetenv("RESOURCEKIT_SQL_DSN")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "user:pw@/db", cfg.SQL.DSN)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  backend: rest
  version: "2"
rest:
  baseURL: http://api.example.com
  timeout: 5s
notifier:
  delay: 10ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rest", cfg.Storage.Backend)
	assert.Equal(t, "2", cfg.Storage.Version)
	assert.Equal(t, "resourcekit", cfg.Storage.Prefix)
	assert.Equal(t, "http://api.example.com", cfg.REST.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.REST.Timeout)
	assert.Equal(t, 10*time.Millisecond, cfg.Notifier.Delay)
	assert.Equal(t, time.Hour, cfg.Cache.Expiry)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
