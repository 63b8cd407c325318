package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendsync/internal/store"
)

func newPaidCommand(root func() (string, error)) *cobra.Command {
	var unpaid bool

	cmd := &cobra.Command{
		Use:   "paid <id>...",
		Short: "Mark stored expenses as paid",
		Args:  cobra.MinimumNArgs(1),
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

			for _, id := range args {
				if err := a.store.MarkPaid(cmd.Context(), id, !unpaid); err != nil {
					return notFound(id, err)
				}
			}
			state := "paid"
			if unpaid {
				state = "unpaid"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d expense(s) %s\n", len(args), state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "mark as unpaid instead")
	return cmd
}

func newDeleteCommand(root func() (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored expenses",
		Args:  cobra.MinimumNArgs(1),
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

			for _, id := range args {
				if err := a.store.Delete(cmd.Context(), id); err != nil {
					return notFound(id, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expense(s)\n", len(args))
			return nil
		},
	}
}

func notFound(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no expense with id %s", id)
	}
	return err
}
