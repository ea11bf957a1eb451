package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, 3009, cfg.Port)
		require.Equal(t, "dev", cfg.Env)
		require.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: 8080\nenv: prod\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, "prod", cfg.Env)
	})

	t.Run("env vars win", func(t *testing.T) {
		t.Setenv("STREAMALLOC_PORT", "9000")
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, 9000, cfg.Port)
	})
}
