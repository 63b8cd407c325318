package commands_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendsync/internal/commands"
	"github.com/cleared-dev/spendsync/internal/importlog"
	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/store"
)

// run executes the CLI in-process and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := commands.NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// workspace initializes a workspace and copies the statement fixture into it.
func workspace(t *testing.T, initArgs ...string) (dir, statement string) {
	t.Helper()
	dir = t.TempDir()
	_, err := run(t, append([]string{"init", dir}, initArgs...)...)
	require.NoError(t, err)

	data, err := os.ReadFile("../../testdata/statement.csv")
	require.NoError(t, err)
	statement = filepath.Join(dir, "2025-01.csv")
	require.NoError(t, os.WriteFile(statement, data, 0o644))
	return dir, statement
}

func storedIn(t *testing.T, dir string, month, year int, user string) []model.StoredExpense {
	t.Helper()
	logger, _ := test.NewNullLogger()
	st, err := store.OpenSQLite(filepath.Join(dir, "spendsync.db"), logger)
	require.NoError(t, err)
	defer st.Close()
	items, err := st.FindByPeriod(context.Background(), month, year, user)
	require.NoError(t, err)
	return items
}

func TestImport_File(t *testing.T) {
	dir, statement := workspace(t, "--user", "alice")

	out, err := run(t, "-w", dir, "import", statement)
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01.csv: read 6, imported 6, ignored 0")

	feb := storedIn(t, dir, 2, 2025, "alice")
	require.Len(t, feb, 3)
	assert.Equal(t, "Streaming Service", feb[0].Description)
	assert.Equal(t, "Laptop", feb[1].Description)

	out, err = run(t, "-w", dir, "import", statement)
	require.NoError(t, err)
	assert.Contains(t, out, "read 6, imported 0, ignored 6")

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].User)
	assert.Equal(t, 6, entries[0].Imported)
	assert.Equal(t, 0, entries[1].Imported)
}

func TestImport_Scan(t *testing.T) {
	dir, statement := workspace(t)
	require.NoError(t, os.Rename(statement, filepath.Join(dir, "import", "jan.csv")))

	out, err := run(t, "-w", dir, "import", "--scan")
	require.NoError(t, err)
	assert.Contains(t, out, "jan.csv: read 6, imported 6")

	_, err = os.Stat(filepath.Join(dir, "import", "jan.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "jan.csv"))
	assert.NoError(t, err)

	out, err = run(t, "-w", dir, "import", "--scan")
	require.NoError(t, err)
	assert.Contains(t, out, "No statements to import.")
}

func TestImport_NoFiles(t *testing.T) {
	dir, _ := workspace(t)
	_, err := run(t, "-w", dir, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files given")
}

func TestImport_AnchorAndStatementMode(t *testing.T) {
	dir, statement := workspace(t)

	out, err := run(t, "-w", dir, "import", statement, "--statement-mode", "--anchor", "2025-06")
	require.NoError(t, err)
	assert.Contains(t, out, "read 4, imported 4")

	jun := storedIn(t, dir, 6, 2025, "")
	require.Len(t, jun, 4)
}

func TestImport_BadAnchor(t *testing.T) {
	dir, statement := workspace(t)
	_, err := run(t, "-w", dir, "import", statement, "--anchor", "2025-13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid period")
}

func TestImport_BadClosingDay(t *testing.T) {
	dir, statement := workspace(t, "--user", "alice")
	for _, day := range []string{"32", "-1"} {
		_, err := run(t, "-w", dir, "import", statement, "--closing-day", day)
		require.Error(t, err, day)
		assert.Contains(t, err.Error(), "not in 1..31")
	}
	assert.Empty(t, storedIn(t, dir, 2, 2025, "alice"))
}

func TestImport_Card(t *testing.T) {
	dir, _ := workspace(t)
	_, err := run(t, "-w", dir, "cards", "add", "visa", "--name", "Visa", "--closing-day", "20")
	require.NoError(t, err)

	stmt := filepath.Join(dir, "visa.csv")
	require.NoError(t, os.WriteFile(stmt, []byte("date,title,amount\n2025-01-10,Bakery,7.00\n"), 0o644))

	_, err = run(t, "-w", dir, "import", stmt, "--card", "visa")
	require.NoError(t, err)

	jan := storedIn(t, dir, 1, 2025, "")
	require.Len(t, jan, 1)
	assert.Equal(t, "visa", jan[0].CardID)
}

func TestImport_MissingFile(t *testing.T) {
	dir, _ := workspace(t)
	_, err := run(t, "-w", dir, "import", filepath.Join(dir, "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading nope.csv")
}

func TestImport_GitAutoCommit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir, statement := workspace(t, "--git")
	require.NoError(t, os.Rename(statement, filepath.Join(dir, "import", "jan.csv")))

	out, err := run(t, "-w", dir, "import", "--scan")
	require.NoError(t, err)
	assert.Contains(t, out, "Committed")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	msg, err := log.Output()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(msg), "import: 1 statement(s)"))
}
