package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsync/internal/cards"
	"github.com/cleared-dev/spendsync/internal/model"
)

func newCardsCommand(root func() (string, error)) *cobra.Command {
	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage the cards of the workspace",
	}
	cardsCmd.AddCommand(newCardsListCommand(root), newCardsAddCommand(root))
	return cardsCmd
}

func newCardsListCommand(root func() (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cards and their closing days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := root()
			if err != nil {
				return err
			}
			svc, err := cards.Load(dir)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCLOSING DAY")
			for _, c := range svc.All() {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", c.ID, c.Name, c.ClosingDay)
			}
			return tw.Flush()
		},
	}
}

func newCardsAddCommand(root func() (string, error)) *cobra.Command {
	var name string
	var closingDay int

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add or update a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card := model.Card{ID: args[0], Name: name, ClosingDay: closingDay}
			if err := cards.Validate(card); err != nil {
				return fmt.Errorf("invalid card: %w", err)
			}

			dir, err := root()
			if err != nil {
				return err
			}
			svc, err := cards.Load(dir)
			if err != nil {
				return err
			}
			svc.Put(card)
			if err := svc.Save(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved card %s (closing day %d)\n", card.ID, card.ClosingDay)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().IntVar(&closingDay, "closing-day", 0, "billing closing day (1-31)")
	_ = cmd.MarkFlagRequired("closing-day")

	return cmd
}
