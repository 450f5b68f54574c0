package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsbelt/dockerbelt/internal/config"
)

// No t.Parallel here: t.Setenv forbids it.
func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)
		require.Equal(t, "info", cfg.LogLevel)
		require.Equal(t, "text", cfg.LogFormat)
		require.Equal(t, config.DefaultBaseClasspath, cfg.BaseClasspath)
		require.Empty(t, cfg.ClasspathOverride)
		require.Equal(t, 1*time.Second, cfg.PollInterval)
		require.Equal(t, 900*time.Millisecond, cfg.AttemptTimeout)
	})

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("CUB_LOG_LEVEL", "debug")
		t.Setenv("CUB_LOG_FORMAT", "json")
		t.Setenv("CUB_CLASSPATH", "/opt/app/*")
		t.Setenv("CUB_CLASSPATH_DIRS", "/opt/libs,/opt/plugins")
		t.Setenv("CUB_POLL_INTERVAL", "250ms")
		t.Setenv("CUB_ATTEMPT_TIMEOUT", "200ms")

		cfg, err := config.Load()
		require.NoError(t, err)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, "json", cfg.LogFormat)
		require.Equal(t, "/opt/app/*", cfg.ClasspathOverride)
		require.Equal(t, "/opt/libs,/opt/plugins", cfg.ClasspathDirs)
		require.Equal(t, 250*time.Millisecond, cfg.PollInterval)
		require.Equal(t, 200*time.Millisecond, cfg.AttemptTimeout)
	})

	t.Run("attempt timeout must stay below poll interval", func(t *testing.T) {
		t.Setenv("CUB_POLL_INTERVAL", "500ms")
		t.Setenv("CUB_ATTEMPT_TIMEOUT", "500ms")

		_, err := config.Load()
		require.ErrorContains(t, err, "must be below")
	})

	t.Run("poll interval below minimum", func(t *testing.T) {
		t.Setenv("CUB_POLL_INTERVAL", "10ms")

		_, err := config.Load()
		require.ErrorContains(t, err, "at least")
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("CUB_POLL_INTERVAL", "soon")

		_, err := config.Load()
		require.ErrorContains(t, err, "parse CUB_POLL_INTERVAL")
	})
}
