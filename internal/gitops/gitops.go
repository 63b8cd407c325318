// Package gitops records workspace changes (imported statements, the import
// log, config) as git commits.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// History commits changes of one workspace directory.
type History struct {
	dir    string
	author string
}

// New returns a History for dir committing as name <email>.
func New(dir, name, email string) *History {
	return &History{dir: dir, author: fmt.Sprintf("%s <%s>", name, email)}
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func (h *History) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = h.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a git repository unless one already exists.
func (h *History) Init() error {
	if IsRepo(h.dir) {
		return nil
	}
	_, err := h.git("init")
	return err
}

// Commit stages paths (relative to the workspace, all changes when empty)
// and commits them. It returns the short commit hash, or "" when there was
// nothing to commit.
func (h *History) Commit(message string, paths ...string) (string, error) {
	add := []string{"add", "-A", "--"}
	if len(paths) == 0 {
		add = append(add, ".")
	} else {
		add = append(add, paths...)
	}
	if _, err := h.git(add...); err != nil {
		return "", err
	}

	staged, err := h.git("diff", "--cached", "--name-only")
	if err != nil {
		return "", err
	}
	if staged == "" {
		return "", nil
	}

	if _, err := h.git("-c", "user.name=spendsync", "-c", "user.email=spendsync@localhost",
		"commit", "-m", message, "--author", h.author); err != nil {
		return "", err
	}
	return h.git("rev-parse", "--short", "HEAD")
}
