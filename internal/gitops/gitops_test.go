package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func lastCommit(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	h := New(dir, "Test Author", "test@example.com")

	assert.False(t, IsRepo(dir), "empty dir should not be a repo")
	require.NoError(t, h.Init())
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")

	// Second Init is a no-op.
	require.NoError(t, h.Init())
}

func TestCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	h := New(dir, "Test Author", "test@example.com")
	require.NoError(t, h.Init())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spendsync.yaml"), []byte("log: {}\n"), 0o644))

	hash, err := h.Commit("init: workspace")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.Contains(t, lastCommit(t, dir, "%s"), "init: workspace")
	assert.Contains(t, lastCommit(t, dir, "%an <%ae>"), "Test Author <test@example.com>")
}

func TestCommit_OnlyGivenPaths(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	h := New(dir, "Test Author", "test@example.com")
	require.NoError(t, h.Init())
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "import-log.csv"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("y\n"), 0o644))

	_, err := h.Commit("import: jan.csv", "logs")
	require.NoError(t, err)

	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "scratch.txt")
	assert.NotContains(t, string(out), "import-log.csv")
}

func TestCommit_NothingToCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	h := New(dir, "Test Author", "test@example.com")
	require.NoError(t, h.Init())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	_, err := h.Commit("first")
	require.NoError(t, err)

	hash, err := h.Commit("second")
	require.NoError(t, err)
	assert.Empty(t, hash)
}
