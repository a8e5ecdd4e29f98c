package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "figgit"), dir)

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)
	dir, err = GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "figgit"), dir)
}

func TestExpandTildeAndShortenPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandTilde("~/src/corp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "src", "corp"), got)

	got, err = ExpandTilde("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = ExpandTilde("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	assert.Equal(t, "~", ShortenPath(home))
	assert.Equal(t, "~"+string(filepath.Separator)+filepath.Join("src", "corp"), ShortenPath(filepath.Join(home, "src", "corp")))
	assert.Equal(t, "/elsewhere", ShortenPath("/elsewhere"))
	assert.Equal(t, "github.com/corp/*", ShortenPath("github.com/corp/*"))
}

func TestCanonicalPath(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	realDir := filepath.Join(root, "real")
	require.NoError(t, os.Mkdir(realDir, 0755))

	got, err := CanonicalPath(filepath.Join(root, "real", "..", "real"))
	require.NoError(t, err)
	assert.Equal(t, realDir, got)

	missing := filepath.Join(root, "missing", "x")
	got, err = CanonicalPath(missing + string(filepath.Separator))
	require.NoError(t, err)
	assert.Equal(t, missing, got)

	link := filepath.Join(root, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	got, err = CanonicalPath(link)
	require.NoError(t, err)
	assert.Equal(t, realDir, got)
}

func TestSecureFiles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions not applicable")
	}
	dir := filepath.Join(t.TempDir(), "cfg")
	require.NoError(t, MkdirSecure(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())

	f, err := CreateTempSecure(dir, ".config.toml.tmp-*")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	ok, err := CheckFilePermissions(f.Name())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, os.Chmod(f.Name(), 0644))
	ok, err = CheckFilePermissions(f.Name())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "chmod 600 "+f.Name(), GetPermissionFixCommand(f.Name()))

	require.NoError(t, FixFilePermissions(f.Name()))
	ok, err = CheckFilePermissions(f.Name())
	require.NoError(t, err)
	assert.True(t, ok)
}
