package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/byterings/figgit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotScopes(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	root := testutil.CreateRepo(t)
	testutil.Git(t, root, "config", "--global", "user.name", "Global Name")
	testutil.Git(t, root, "config", "--global", "user.email", "global@example.com")
	testutil.Git(t, root, "config", "--local", "user.email", "local@example.com")
	testutil.Git(t, root, "config", "--local", "user.signingkey", "ABCD1234")

	repo, err := Open(root)
	require.NoError(t, err)
	snap, err := repo.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, Identity{Email: "local@example.com", SigningKey: "ABCD1234"}, snap.Local())
	assert.Equal(t, Identity{Name: "Global Name", Email: "global@example.com"}, snap.Global())
	assert.Equal(t, Identity{Name: "Global Name", Email: "local@example.com", SigningKey: "ABCD1234"}, snap.Effective())
}

func TestGlobalSnapshot(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	assert.True(t, GlobalSnapshot().Global().IsEmpty())

	testutil.Git(t, t.TempDir(), "config", "--global", "user.name", "Global Name")
	id := GlobalSnapshot().Global()
	assert.Equal(t, "Global Name", id.Name)
	assert.False(t, id.IsEmpty())
}

func TestGlobalSnapshotPrecedence(t *testing.T) {
	testutil.RequireGit(t)
	home := testutil.IsolateGit(t)
	t.Setenv("GIT_CONFIG_GLOBAL", "")
	require.NoError(t, os.Unsetenv("GIT_CONFIG_GLOBAL"))

	xdg := filepath.Join(home, ".config", "git", "config")
	require.NoError(t, os.MkdirAll(filepath.Dir(xdg), 0700))
	require.NoError(t, os.WriteFile(xdg, []byte("[user]\n\tname = Xdg\n\temail = xdg@example.com\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".gitconfig"), []byte("[user]\n\tname = Home\n"), 0600))

	// ~/.gitconfig wins key by key, the XDG file fills the gaps
	id := GlobalSnapshot().Global()
	assert.Equal(t, "Home", id.Name)
	assert.Equal(t, "xdg@example.com", id.Email)
	assert.Equal(t, strings.TrimSpace(testutil.GitOutput(t, home, "config", "--global", "user.name")), id.Name)

	alt := filepath.Join(home, "alt.gitconfig")
	require.NoError(t, os.WriteFile(alt, []byte("[user]\n\tname = Alt\n"), 0600))
	t.Setenv("GIT_CONFIG_GLOBAL", alt)

	id = GlobalSnapshot().Global()
	assert.Equal(t, Identity{Name: "Alt"}, id)
	assert.Equal(t, strings.TrimSpace(testutil.GitOutput(t, home, "config", "--global", "user.name")), id.Name)
}
