package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsync/internal/gitops"
	"github.com/cleared-dev/spendsync/internal/importer"
	"github.com/cleared-dev/spendsync/internal/importlog"
	"github.com/cleared-dev/spendsync/internal/pipeline"
)

func newImportCommand(root func() (string, error)) *cobra.Command {
	var flags runFlags
	var scan bool

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import card statement CSV files",
		Long: "Import card statement CSV files (date,title,amount). With --scan, every CSV in " +
			"the workspace import/ directory is imported and moved to import/processed/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !scan && len(args) == 0 {
				return fmt.Errorf("no files given; pass files or --scan")
			}
			dir, err := root()
			if err != nil {
				return err
			}
			return runImport(cmd, dir, args, scan, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&scan, "scan", false, "import every CSV in <workspace>/import/")

	return cmd
}

type importJob struct {
	name      string
	path      string
	processed bool // move to import/processed/ on success
}

func runImport(cmd *cobra.Command, root string, files []string, scan bool, flags runFlags) error {
	a, err := openApp(root)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := flags.options(a.cfg)
	if err != nil {
		return err
	}

	var jobs []importJob
	for _, f := range files {
		jobs = append(jobs, importJob{name: filepath.Base(f), path: f})
	}
	if scan {
		found, err := importer.Scan(root)
		if err != nil {
			return err
		}
		for _, f := range found {
			jobs = append(jobs, importJob{name: f.Name, path: f.Path, processed: true})
		}
	}
	if len(jobs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No statements to import.")
		return nil
	}

	out := cmd.OutOrStdout()
	var total pipeline.ImportResult
	for _, job := range jobs {
		res, err := importFile(cmd, a, job, opts)
		if err != nil {
			return err
		}
		total.Read += res.Read
		total.Imported += res.Imported
		total.Ignored += res.Ignored
	}
	if len(jobs) > 1 {
		fmt.Fprintf(out, "Total: read %d, imported %d, ignored %d\n", total.Read, total.Imported, total.Ignored)
	}

	return commitImport(out, a, len(jobs))
}

func importFile(cmd *cobra.Command, a *app, job importJob, opts pipeline.Options) (pipeline.ImportResult, error) {
	data, err := os.ReadFile(job.path)
	if err != nil {
		return pipeline.ImportResult{}, fmt.Errorf("reading %s: %w", job.name, err)
	}

	res, err := a.pipeline.Import(cmd.Context(), string(data), opts)
	if err != nil {
		return pipeline.ImportResult{}, fmt.Errorf("importing %s: %w", job.name, err)
	}

	if job.processed {
		if err := importer.MarkProcessed(a.root, job.name); err != nil {
			return pipeline.ImportResult{}, err
		}
	}

	entry := importlog.Entry{
		Timestamp: time.Now(),
		File:      job.name,
		User:      opts.UserID,
		Card:      opts.CardID,
		Mode:      "import",
		Read:      res.Read,
		Imported:  res.Imported,
		Ignored:   res.Ignored,
	}
	if err := importlog.Append(a.root, []importlog.Entry{entry}); err != nil {
		return pipeline.ImportResult{}, fmt.Errorf("writing import log: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: read %d, imported %d, ignored %d\n", job.name, res.Read, res.Imported, res.Ignored)
	return res, nil
}

func commitImport(out io.Writer, a *app, files int) error {
	if !a.cfg.Git.AutoCommit || !gitops.IsRepo(a.root) {
		return nil
	}
	h := gitops.New(a.root, a.cfg.Git.AuthorName, a.cfg.Git.AuthorEmail)
	hash, err := h.Commit(fmt.Sprintf("import: %d statement(s)", files), importer.ImportDir, "logs")
	if err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	if hash != "" {
		a.logger.WithFields(logrus.Fields{"commit": hash, "files": files}).Info("import committed")
		fmt.Fprintf(out, "Committed %s\n", hash)
	}
	return nil
}
