package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workEntries() []config.Entry {
	return []config.Entry{
		{Key: "user.name", Value: "Jane Doe"},
		{Key: "user.email", Value: "jane@corp.example"},
		{Key: "commit.gpgsign", Value: "true"},
	}
}

func TestOpenNotARepository(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAGitRepository)
}

func TestOpenFromSubdirectory(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	root := testutil.CreateRepo(t)
	sub := filepath.Join(root, "pkg", "deep")
	require.NoError(t, os.MkdirAll(sub, 0755))

	repo, err := Open(sub)
	require.NoError(t, err)
	assert.Equal(t, root, repo.Root)

	gitDir, err := repo.GitDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".git"), gitDir)
}

func TestApplyIsIdempotent(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	repo, err := Open(testutil.CreateRepo(t))
	require.NoError(t, err)

	changes, err := repo.Apply(workEntries())
	require.NoError(t, err)
	require.Len(t, changes, 3)
	for _, c := range changes {
		assert.True(t, c.WasUnset, c.Key)
		assert.Empty(t, c.Old)
	}

	changes, err = repo.Apply(workEntries())
	require.NoError(t, err)
	assert.Empty(t, changes)

	v, ok, err := repo.GetLocal("user.email")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jane@corp.example", v)
}

func TestApplyReportsOldValues(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	root := testutil.CreateRepo(t)
	testutil.Git(t, root, "config", "--local", "user.name", "Old Name")
	repo, err := Open(root)
	require.NoError(t, err)

	changes, err := repo.Apply([]config.Entry{{Key: "user.name", Value: "New Name"}})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, Change{Key: "user.name", Old: "Old Name", New: "New Name"}, changes[0])
}

func TestApplyNeverTouchesGlobal(t *testing.T) {
	testutil.RequireGit(t)
	home := testutil.IsolateGit(t)

	root := testutil.CreateRepo(t)
	testutil.Git(t, root, "config", "--global", "user.name", "Global Name")

	repo, err := Open(root)
	require.NoError(t, err)
	_, err = repo.Apply(workEntries())
	require.NoError(t, err)

	global, err := os.ReadFile(filepath.Join(home, ".gitconfig"))
	require.NoError(t, err)
	assert.Contains(t, string(global), "Global Name")
	assert.NotContains(t, string(global), "jane@corp.example")
}

func TestApplyReplacesMultiValuedKey(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	root := testutil.CreateRepo(t)
	testutil.Git(t, root, "config", "--local", "--add", "user.email", "a@example.com")
	testutil.Git(t, root, "config", "--local", "--add", "user.email", "b@example.com")

	repo, err := Open(root)
	require.NoError(t, err)
	_, err = repo.Apply([]config.Entry{{Key: "user.email", Value: "jane@corp.example"}})
	require.NoError(t, err)

	assert.Equal(t, "jane@corp.example\n", testutil.GitOutput(t, root, "config", "--local", "--get-all", "user.email"))
}

func TestPlanDoesNotWrite(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	repo, err := Open(testutil.CreateRepo(t))
	require.NoError(t, err)

	changes, err := repo.Plan(workEntries())
	require.NoError(t, err)
	assert.Len(t, changes, 3)

	_, ok, err := repo.GetLocal("user.name")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnsetLocal(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	repo, err := Open(testutil.CreateRepo(t))
	require.NoError(t, err)

	require.NoError(t, repo.SetLocal("user.signingkey", "ABCD"))
	require.NoError(t, repo.UnsetLocal("user.signingkey"))
	require.NoError(t, repo.UnsetLocal("user.signingkey"))

	_, ok, err := repo.GetLocal("user.signingkey")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplyClearsUnsetKeys(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	repo, err := Open(testutil.CreateRepo(t))
	require.NoError(t, err)
	require.NoError(t, repo.SetLocal("user.signingkey", "ABCD"))

	entries := append(workEntries(), config.Entry{Key: "user.signingkey", Unset: true})
	planned, err := repo.Plan(entries)
	require.NoError(t, err)
	assert.Contains(t, planned, Change{Key: "user.signingkey", Old: "ABCD", Removed: true})

	changes, err := repo.Apply(entries)
	require.NoError(t, err)
	assert.Equal(t, planned, changes)

	_, ok, err := repo.GetLocal("user.signingkey")
	require.NoError(t, err)
	assert.False(t, ok)

	changes, err = repo.Apply(entries)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestOriginURL(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	root := testutil.CreateRepo(t)
	repo, err := Open(root)
	require.NoError(t, err)
	assert.Empty(t, repo.OriginURL())

	testutil.Git(t, root, "remote", "add", "origin", "git@github.com:corp/app.git")
	assert.Equal(t, "git@github.com:corp/app.git", repo.OriginURL())
}

func TestClone(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolateGit(t)

	bare := testutil.CreateBareRepo(t)
	dest := filepath.Join(t.TempDir(), "checkout")

	require.NoError(t, Clone(bare, dest))
	assert.FileExists(t, filepath.Join(dest, "README.md"))

	assert.Error(t, Clone(filepath.Join(t.TempDir(), "missing.git"), ""))
}
