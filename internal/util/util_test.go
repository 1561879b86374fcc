package util_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/brogergvhs/mangaseek/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuman(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", util.Human(512))
	assert.Equal(t, "1.50 KB", util.Human(1536))
	assert.Equal(t, "3.00 MB", util.Human(3<<20))
	assert.Equal(t, "1.25 GB", util.Human(5<<28))
}

func TestCreateCBZ(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []string
	for _, name := range []string{"page_002.jpg", "page_001.jpg"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
		files = append(files, p)
	}

	out := filepath.Join(dir, "1_chapter_1.cbz")
	require.NoError(t, util.CreateCBZ(files, out))

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 2)
	assert.Equal(t, "page_001.jpg", r.File[0].Name)
	assert.Equal(t, "page_002.jpg", r.File[1].Name)
	assert.Equal(t, filepath.Join(dir, "page_002.jpg"), files[0], "input slice must not be reordered")
}

func TestCreateCBZ_MissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "broken.cbz")

	err := util.CreateCBZ([]string{filepath.Join(dir, "nope.jpg")}, out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestCleanupTempFolders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "1_chapter_1_tmp"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "keep"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2_tmp"), nil, 0644))

	removed, err := util.CleanupTempFolders(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "1_chapter_1_tmp")}, removed)
	assert.DirExists(t, filepath.Join(dir, "keep"))
	assert.FileExists(t, filepath.Join(dir, "2_tmp"))

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0755))
	assert.True(t, util.RemoveIfEmpty(empty))
	assert.False(t, util.RemoveIfEmpty(dir))
}
