package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.hcl"))
	touch(t, filepath.Join(dir, "nested", "b.hcl"))
	touch(t, filepath.Join(dir, "readme.md"))

	t.Run("walks directories recursively", func(t *testing.T) {
		files, err := FindFilesByExtension(dir, ".hcl")
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("accepts a single matching file", func(t *testing.T) {
		path := filepath.Join(dir, "a.hcl")
		files, err := FindFilesByExtension(path, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{path}, files)
	})

	t.Run("rejects a file with the wrong extension", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(dir, "readme.md"), ".hcl")
		assert.Error(t, err)
	})

	t.Run("rejects an empty extension", func(t *testing.T) {
		_, err := FindFilesByExtension(dir, "")
		assert.Error(t, err)
	})

	t.Run("missing root errors", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(dir, "ghost"), ".hcl")
		assert.Error(t, err)
	})
}
