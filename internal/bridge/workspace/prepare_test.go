package workspace

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPrepare_CreatesRoot(t *testing.T) {
	fs := afero.NewMemMapFs()

	root, err := Prepare(fs, "/home/user/felipe-workspace", true, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, "/home/user/felipe-workspace", root)
	isDir, err := afero.IsDir(fs, root)
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestPrepare_RootIsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/ws", []byte("x"), 0o644))

	_, err := Prepare(fs, "/ws", false, discardLogger())

	var rootErr *RootError
	assert.ErrorAs(t, err, &rootErr)
}

func TestPrepare_InitialisesGitOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ws")

	root, err := Prepare(afero.NewOsFs(), dir, true, discardLogger())
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, ".git"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second run finds the existing repository and succeeds.
	_, err = Prepare(afero.NewOsFs(), dir, true, discardLogger())
	assert.NoError(t, err)
}

func TestPrepare_GitDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ws")

	root, err := Prepare(afero.NewOsFs(), dir, false, discardLogger())

	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, ".git"))
	assert.True(t, os.IsNotExist(err))
}
