package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brogergvhs/mangaseek/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) config.Store {
	t.Helper()
	return config.Store{Root: t.TempDir()}
}

func TestStore_Init(t *testing.T) {
	t.Parallel()

	s := newStore(t)

	path, err := s.Init()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root, "configs", "Default.yaml"), path)

	label, err := s.CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLabel, label)

	again, err := s.Init()
	assert.ErrorIs(t, err, os.ErrExist)
	assert.Equal(t, path, again)
}

func TestStore_Lifecycle(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	_, err := s.Init()
	require.NoError(t, err)

	_, err = s.Create("work")
	require.NoError(t, err)
	_, err = s.Create("work")
	require.Error(t, err)

	require.NoError(t, s.Switch("work"))
	require.Error(t, s.Switch("missing"))

	require.NoError(t, s.Rename("work", "office"))
	label, err := s.CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, "office", label)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, config.Info{Label: "Default", Path: s.Path("Default")}, list[0])
	assert.Equal(t, config.Info{Label: "office", Path: s.Path("office"), Active: true}, list[1])

	switched, err := s.Remove("office")
	require.NoError(t, err)
	assert.True(t, switched)
	label, _ = s.CurrentLabel()
	assert.Equal(t, config.DefaultLabel, label)

	_, err = s.Remove(config.DefaultLabel)
	require.Error(t, err)
}

func TestStore_Add(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	src := filepath.Join(t.TempDir(), "src.yaml")

	require.NoError(t, os.WriteFile(src, []byte("output: ./manga\nmax_pages: 20\n"), 0644))
	require.NoError(t, s.Add("imported", src))

	cfg, err := config.LoadYAML(s.Path("imported"))
	require.NoError(t, err)
	assert.Equal(t, "./manga", cfg.Output)
	assert.Equal(t, 20, cfg.MaxPages)
	assert.InDelta(t, config.DefaultRateLimit, cfg.RateLimit, 1e-9)

	require.NoError(t, os.WriteFile(src, []byte("output: [\n"), 0644))
	assert.Error(t, s.Add("broken", src))
}

func TestStore_LoadMerged(t *testing.T) {
	t.Parallel()

	t.Run("no active profile falls back to defaults", func(t *testing.T) {
		t.Parallel()

		cfg, used, err := newStore(t).LoadMerged(config.Options{Output: "out"})
		require.NoError(t, err)
		assert.Contains(t, used, "default config in memory")
		assert.Equal(t, "out", cfg.Output)
		assert.Equal(t, config.DefaultMaxPages, cfg.MaxPages)
	})

	t.Run("flags override the active profile", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		path, err := s.Init()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("output: lib\nmax_pages: 10\nrate_limit: 2\ncloudflare: true\n"), 0644))

		cfg, used, err := s.LoadMerged(config.Options{MaxPages: 50, Debug: true})
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, "lib", cfg.Output)
		assert.Equal(t, 50, cfg.MaxPages)
		assert.InDelta(t, 2.0, cfg.RateLimit, 1e-9)
		assert.True(t, cfg.Cloudflare)
		assert.True(t, cfg.Debug)
	})

	t.Run("ignore config skips the profile", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		path, err := s.Init()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("output: lib\n"), 0644))

		cfg, used, err := s.LoadMerged(config.Options{IgnoreConfig: true})
		require.NoError(t, err)
		assert.Equal(t, "(ignored config)", used)
		assert.Equal(t, ".", cfg.Output)
	})

	t.Run("a broken profile is an error", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		path, err := s.Init()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("image_workers: many\n"), 0644))

		_, _, err = s.LoadMerged(config.Options{})
		require.Error(t, err)
	})
}
