// Package commands implements the spendsync CLI.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsync/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var workspace string

	rootCmd := &cobra.Command{
		Use:     "spendsync",
		Short:   "Import card statements into categorized expense records",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "workspace directory")

	root := func() (string, error) {
		abs, err := filepath.Abs(workspace)
		if err != nil {
			return "", fmt.Errorf("resolving path: %w", err)
		}
		return abs, nil
	}

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(root),
		newPreviewCommand(root),
		newListCommand(root),
		newSummaryCommand(root),
		newPaidCommand(root),
		newDeleteCommand(root),
		newCardsCommand(root),
	)

	return rootCmd
}
