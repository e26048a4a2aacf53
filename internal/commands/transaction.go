package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/domain"
)

func newTransactionCommand(a *app, kind domain.EntryKind) *cobra.Command {
	use, short, verb := "deposit", "Deposit into the first account of a customer", "Deposited %s into account %s."
	if kind == domain.EntryWithdrawal {
		use, short, verb = "withdraw", "Withdraw from the first account of a customer", "Withdrew %s from account %s."
	}

	return &cobra.Command{
		Use:   use + " TAX_ID AMOUNT",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taxID, err := taxIDArg(args)
			if err != nil {
				return err
			}

			execute := a.ledger.Transactions.Deposit
			if kind == domain.EntryWithdrawal {
				execute = a.ledger.Transactions.Withdraw
			}

			result, err := execute(a.ctx, taxID, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, verb+"\n", result.Entry.Amount.StringFixed(2), result.Account.DisplayNumber)
			fmt.Fprintf(out, "Balance: %s\n", result.Balance.StringFixed(2))

			if kind == domain.EntryWithdrawal {
				fmt.Fprintf(out, "Withdrawals left in period: %d\n", result.WithdrawalsRemaining)
			}

			return nil
		},
	}
}
