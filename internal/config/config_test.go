package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "ok> ", cfg.REPL.Prompt)
	assert.Equal(t, "0.txt", cfg.REPL.Boot)
	assert.Zero(t, cfg.Heap.Limit)
	assert.False(t, cfg.Trace.Enable)
}

func TestLoadFrom(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "goforth.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[heap]
limit = 65536

[repl]
boot = "boot.txt"

[trace]
enable = true
`), 0644))

		cfg, err := LoadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, 65536, cfg.Heap.Limit)
		assert.Equal(t, "boot.txt", cfg.REPL.Boot)
		assert.Equal(t, "ok> ", cfg.REPL.Prompt, "unset keys keep defaults")
		assert.True(t, cfg.Trace.Enable)
	})

	t.Run("malformed file errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("not [valid"), 0644))
		_, err := LoadFrom(path)
		assert.Error(t, err)
	})
}
