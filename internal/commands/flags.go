package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsync/internal/config"
	"github.com/cleared-dev/spendsync/internal/period"
	"github.com/cleared-dev/spendsync/internal/pipeline"
)

// runFlags are the pipeline options shared by import and preview.
type runFlags struct {
	user          string
	card          string
	closingDay    int
	statementMode bool
	anchor        string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.user, "user", "", "owner of the expenses (default from config)")
	cmd.Flags().StringVar(&f.card, "card", "", "card id from cards.csv")
	cmd.Flags().IntVar(&f.closingDay, "closing-day", 0, "closing day when the card is unknown (default from config)")
	cmd.Flags().BoolVar(&f.statementMode, "statement-mode", false, "keep only the current installment of each plan")
	cmd.Flags().StringVar(&f.anchor, "anchor", "", "force every expense into this period (YYYY-MM)")
}

func (f *runFlags) options(cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		UserID:        f.user,
		CardID:        f.card,
		ClosingDay:    f.closingDay,
		StatementMode: f.statementMode,
	}
	if f.closingDay != 0 && (f.closingDay < 1 || f.closingDay > 31) {
		return pipeline.Options{}, fmt.Errorf("--closing-day %d not in 1..31", f.closingDay)
	}
	if opts.UserID == "" {
		opts.UserID = cfg.Import.User
	}
	if f.anchor != "" {
		year, month, err := period.Parse(f.anchor)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Anchor, opts.Year, opts.Month = true, year, month
	}
	return opts, nil
}
