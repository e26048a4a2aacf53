package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/taxidpkg"
)

func taxIDArg(args []string) (string, error) {
	if !taxidpkg.IsValid(args[0]) {
		return "", invalidInput("tax ID %q must have %d digits", args[0], taxidpkg.Length)
	}

	return args[0], nil
}

func newAccountCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Open and list checking accounts",
	}

	cmd.AddCommand(newAccountOpenCommand(a), newAccountListCommand(a))

	return cmd
}

func newAccountOpenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open TAX_ID",
		Short: "Open a checking account for a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taxID, err := taxIDArg(args)
			if err != nil {
				return err
			}

			account, err := a.ledger.Accounts.Open(a.ctx, taxID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account %s opened at branch %s for %s.\n",
				account.DisplayNumber, account.Branch, account.OwnerName)

			return nil
		},
	}
}

func newAccountListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [TAX_ID]",
		Short: "List accounts of a customer, or every account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := listAccounts(a.ctx, a, args)
			if err != nil {
				return err
			}

			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts opened.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ACCOUNT\tBRANCH\tOWNER\tTAX ID\tBALANCE")

			for _, acc := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					acc.DisplayNumber, acc.Branch, acc.OwnerName, acc.OwnerTaxID, acc.Balance.StringFixed(2))
			}

			return w.Flush()
		},
	}
}

func listAccounts(ctx context.Context, a *app, args []string) ([]domain.AccountSnapshot, error) {
	if len(args) == 0 {
		return a.ledger.Accounts.ListAll(ctx), nil
	}

	taxID, err := taxIDArg(args)
	if err != nil {
		return nil, err
	}

	return a.ledger.Accounts.List(ctx, taxID)
}
