package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/period"
	"github.com/cleared-dev/spendsync/internal/store"
)

func newSummaryCommand(root func() (string, error)) *cobra.Command {
	var user string
	var when string
	var months int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show stored totals per period and per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if months < 1 {
				return fmt.Errorf("--months must be at least 1")
			}
			year, month, err := period.Parse(when)
			if err != nil {
				return err
			}

			dir, err := root()
			if err != nil {
				return err
			}
			a, err := openApp(dir)
			if err != nil {
				return err
			}
			defer a.Close()

			if user == "" {
				user = a.cfg.Import.User
			}

			var all []model.StoredExpense
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PERIOD\tCOUNT\tTOTAL\tPAID\tOPEN")
			for i := months - 1; i >= 0; i-- {
				y, m := period.Add(year, month, -i)
				items, err := a.store.FindByPeriod(cmd.Context(), m, y, user)
				if err != nil {
					return err
				}
				s := store.Summarize(y, m, items)
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", period.Format(y, m), s.Count,
					s.Total.StringFixed(2), s.Paid.StringFixed(2), s.Open.StringFixed(2))
				all = append(all, items...)
			}

			fmt.Fprintln(tw, "\nCATEGORY\tCOUNT\tTOTAL")
			for _, c := range store.ByCategory(all) {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Category, c.Count, c.Total.StringFixed(2))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owner of the expenses (default from config)")
	cmd.Flags().StringVar(&when, "period", currentPeriod(), "last period to summarize (YYYY-MM)")
	cmd.Flags().IntVar(&months, "months", 1, "number of periods ending at --period")

	return cmd
}
