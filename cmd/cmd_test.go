package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brogergvhs/mangaseek/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a store in a temp dir. Commands
// share package level flags, so these tests do not run in parallel.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(bytes.NewBufferString(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func useTempStore(t *testing.T) config.Store {
	t.Helper()

	prev := store
	store = config.Store{Root: t.TempDir()}
	t.Cleanup(func() { store = prev })

	return store
}

func TestVersionAndSources(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mangaseek version: dev")

	out, err = run(t, "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "Hunters Scans")
	assert.Contains(t, out, "huntersscan.xyz")
	assert.Contains(t, out, "(any other site)")
}

func TestConfigCommands(t *testing.T) {
	s := useTempStore(t)

	out, err := run(t, "config", "init", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "This config is now active")

	_, err = run(t, "config", "add", "work")
	require.NoError(t, err)

	out, err = run(t, "config", "switch", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Switched to: work")

	out, err = run(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, s.Path("work"))

	out, err = run(t, "config", "remove", "work", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Fallback switched to: Default")

	label, err := s.CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLabel, label)
}

func TestChaptersCommand(t *testing.T) {
	useTempStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/series/x" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, `<a href="/series/x/chapter-2">Chapter 2</a><a href="/series/x/chapter-1">Chapter 1</a>`)
	}))
	t.Cleanup(srv.Close)

	out, err := run(t, "chapters", "--url", srv.URL+"/series/x")
	require.NoError(t, err)
	assert.Contains(t, out, "2 chapters from Generic, oldest first")
	assert.Regexp(t, `1\s+1\s+Chapter 1\s+`+srv.URL+`/series/x/chapter-1`, out)
	assert.Regexp(t, `2\s+2\s+Chapter 2`, out)

	flagListURL = ""
	_, err = run(t, "chapters", "--url", srv.URL+"/empty")
	require.Error(t, err)
	flagListURL = ""
}
