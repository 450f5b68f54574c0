package render_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsbelt/dockerbelt/internal/infra/render"
)

func TestRender(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"BROKER_ID":   "1",
		"ADVERTISED":  "kafka:9092",
		"LOG_RETAIN":  "168h",
		"UNUSED_FLAG": "x",
	}

	t.Run("template mode", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder

		text := "broker.id={{.BROKER_ID}}\nlisteners={{env \"ADVERTISED\"}}\n"

		err := render.Render(&out, "server.properties", text, env, false)
		require.NoError(t, err)
		require.Equal(t, "broker.id=1\nlisteners=kafka:9092\n", out.String())
	})

	t.Run("missing keys render empty", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder

		err := render.Render(&out, "t", "a={{.ABSENT}}b", env, false)
		require.NoError(t, err)
		require.Equal(t, "a=b", out.String())
	})

	t.Run("parse error surfaces", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder

		err := render.Render(&out, "bad", "{{.BROKER_ID", env, false)
		require.ErrorContains(t, err, "parse template bad")
	})

	t.Run("dollar-only mode", func(t *testing.T) {
		t.Parallel()

		var out strings.Builder

		text := "id=$BROKER_ID addr=${ADVERTISED} literal={{.BROKER_ID}} absent=$NOPE"

		err := render.Render(&out, "t", text, env, true)
		require.NoError(t, err)
		require.Equal(t, "id=1 addr=kafka:9092 literal={{.BROKER_ID}} absent=", out.String())
	})
}

func TestFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "server.properties.template")
	dst := filepath.Join(dir, "server.properties")

	require.NoError(t, os.WriteFile(src, []byte("broker.id={{.BROKER_ID}}\n"), 0o600))

	err := render.File(src, dst, map[string]string{"BROKER_ID": "7"}, false)
	require.NoError(t, err)

	rendered, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "broker.id=7\n", string(rendered))
}

func TestEnviron(t *testing.T) {
	t.Setenv("RENDER_TEST_KEY", "value")

	env := render.Environ()
	require.Equal(t, "value", env["RENDER_TEST_KEY"])
}
