package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsync/internal/model"
	"github.com/cleared-dev/spendsync/internal/period"
	"github.com/cleared-dev/spendsync/internal/store"
)

// currentPeriod returns the period of now formatted as YYYY-MM.
func currentPeriod() string {
	now := time.Now()
	return period.Format(now.Year(), int(now.Month()))
}

func newListCommand(root func() (string, error)) *cobra.Command {
	var (
		user     string
		when     string
		category string
		exclude  string
		paid     bool
		unpaid   bool
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored expenses of a period or category",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			var items []model.StoredExpense
			total := 0
			if category != "" {
				items, err = a.store.FindByCategory(cmd.Context(), category, user)
				if err != nil {
					return err
				}
				total = len(items)
			} else {
				year, month, err := period.Parse(when)
				if err != nil {
					return err
				}
				q := store.Query{UserID: user, Month: month, Year: year, ExcludeCategory: exclude}
				if paid || unpaid {
					p := paid
					q.Paid = &p
				}
				if pageSize > 0 {
					q.Offset, q.Limit = (max(page, 1)-1)*pageSize, pageSize
				}
				res, err := a.store.FindByMonthYear(cmd.Context(), q)
				if err != nil {
					return err
				}
				items, total = res.Items, res.Total
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPERIOD\tDESCRIPTION\tCATEGORY\tINSTALLMENT\tAMOUNT\tPAID\tCARD")
			for _, it := range items {
				paidMark := ""
				if it.Paid {
					paidMark = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					it.ID, period.Format(it.Year, it.Month), it.Description, it.Category,
					installmentLabel(it.Expense), it.Amount.StringFixed(2), paidMark, it.CardID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d expenses\n", len(items), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owner of the expenses (default from config)")
	cmd.Flags().StringVar(&when, "period", currentPeriod(), "period to list (YYYY-MM)")
	cmd.Flags().StringVar(&category, "category", "", "list every expense of this category instead of a period")
	cmd.Flags().StringVar(&exclude, "exclude-category", "", "leave out this category")
	cmd.Flags().BoolVar(&paid, "paid", false, "only paid expenses")
	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "only unpaid expenses")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "expenses per page (0 lists all)")
	cmd.MarkFlagsMutuallyExclusive("paid", "unpaid")
	cmd.MarkFlagsMutuallyExclusive("category", "exclude-category")

	return cmd
}
