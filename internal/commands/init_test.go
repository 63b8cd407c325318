package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendsync/internal/cards"
	"github.com/cleared-dev/spendsync/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "spendsync-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "spendsync")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/spendsync")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runSpendsync(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runSpendsync(t, "init", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized spendsync workspace")

	for _, d := range []string{"logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	_, err = os.Stat(filepath.Join(dir, "import", ".gitkeep"))
	assert.NoError(t, err)
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendsync(t, "init", dir, "--user", "alice", "--closing-day", "12")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Import.User)
	assert.Equal(t, 12, cfg.Import.ClosingDay)
	assert.Equal(t, "Imported", cfg.Import.Category)
	assert.False(t, cfg.Git.AutoCommit)
}

func TestInit_Cards(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendsync(t, "init", dir)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, cards.FileName))
	require.NoError(t, err)
	defer f.Close()

	got, err := cards.ReadCards(f)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendsync(t, "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	for _, pattern := range []string{"spendsync.db", ".env"} {
		assert.Contains(t, string(data), pattern, ".gitignore should contain %s", pattern)
	}
}

func TestInit_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	_, err := runSpendsync(t, "init", dir)
	require.NoError(t, err)

	out, err := runSpendsync(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func TestInit_InvalidClosingDay(t *testing.T) {
	_, err := runSpendsync(t, "init", t.TempDir(), "--closing-day", "40")
	require.Error(t, err)
}

func TestInit_GitRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	out, err := runSpendsync(t, "init", dir, "--git")
	require.NoError(t, err, out)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	msg, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "init:")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	author, err := authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(author), "spendsync <spendsync@localhost>")
}
