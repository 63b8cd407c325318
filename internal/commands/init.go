package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsync/internal/cards"
	"github.com/cleared-dev/spendsync/internal/config"
	"github.com/cleared-dev/spendsync/internal/gitops"
	"github.com/cleared-dev/spendsync/internal/importer"
)

func newInitCommand() *cobra.Command {
	var user string
	var closingDay int
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new spendsync workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, user, closingDay, git)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "default owner of imported expenses")
	cmd.Flags().IntVar(&closingDay, "closing-day", 3, "default card closing day")
	cmd.Flags().BoolVar(&git, "git", false, "track the workspace in git and commit after imports")

	return cmd
}

func runInit(out io.Writer, dir, user string, closingDay int, git bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	// Create directory structure.
	for _, d := range []string{"logs", importer.ImportDir, importer.ProcessedDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Import.User = user
	cfg.Import.ClosingDay = closingDay
	cfg.Git.AutoCommit = git
	if _, err := cfg.ParserConfig(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := cards.NewService(nil).Save(dir); err != nil {
		return fmt.Errorf("writing cards: %w", err)
	}

	gitignore := cfg.Storage.Path + "\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, importer.ImportDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !git {
		fmt.Fprintf(out, "Initialized spendsync workspace at %s\n", dir)
		return nil
	}

	h := gitops.New(dir, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err := h.Init(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := h.Commit("init: spendsync workspace")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	fmt.Fprintf(out, "Initialized spendsync workspace at %s (%s)\n", dir, hash)
	return nil
}
