package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsync/internal/importlog"
	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/period"
	"github.com/cleared-dev/spendsync/internal/preview"
)

func newPreviewCommand(root func() (string, error)) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show what importing a statement would store, without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := root()
			if err != nil {
				return err
			}
			return runPreview(cmd, dir, args[0], flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runPreview(cmd *cobra.Command, root, file string, flags runFlags) error {
	a, err := openApp(root)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := flags.options(a.cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(file), err)
	}

	sum, err := a.pipeline.Preview(cmd.Context(), string(data), opts)
	if err != nil {
		return fmt.Errorf("previewing %s: %w", filepath.Base(file), err)
	}

	entry := importlog.Entry{
		Timestamp: time.Now(),
		File:      filepath.Base(file),
		User:      opts.UserID,
		Card:      opts.CardID,
		Mode:      "preview",
		Read:      sum.Read,
		Imported:  sum.Imported,
		Ignored:   sum.Ignored,
	}
	if err := importlog.Append(root, []importlog.Entry{entry}); err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}

	return printSummary(cmd.OutOrStdout(), sum)
}

func installmentLabel(e model.Expense) string {
	if !e.IsInstallment() {
		return ""
	}
	return fmt.Sprintf("%d/%d", e.InstallmentIndex, e.InstallmentTotal)
}

func printSummary(w io.Writer, s preview.Summary) error {
	fmt.Fprintf(w, "Read %d, would import %d, ignored %d\n", s.Read, s.Imported, s.Ignored)
	fmt.Fprintf(w, "Total %s (%d lump sum, %d installments)\n", s.TotalAmount.StringFixed(2), s.LumpSum, s.Installments)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nPERIOD\tCOUNT\tTOTAL")
	for _, m := range s.Months {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", period.Format(m.Year, m.Month), m.Count, m.Total.StringFixed(2))
	}

	fmt.Fprintln(tw, "\nCATEGORY\tCOUNT\tTOTAL")
	for _, c := range s.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Category, c.Count, c.Total.StringFixed(2))
	}

	fmt.Fprintln(tw, "\nTOP\tPERIOD\tINSTALLMENT\tAMOUNT")
	for _, e := range s.Top {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Description, period.Format(e.Year, e.Month), installmentLabel(e), e.Amount.StringFixed(2))
	}
	return tw.Flush()
}
