package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/statementxlsx"
)

func newStatementCommand(a *app) *cobra.Command {
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "statement TAX_ID",
		Short: "Print the statement of the first account of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taxID, err := taxIDArg(args)
			if err != nil {
				return err
			}

			st, err := a.ledger.Accounts.Statement(a.ctx, taxID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			acc := st.Account

			fmt.Fprintf(out, "Account %s, branch %s, owner %s (%s)\n", acc.DisplayNumber, acc.Branch, acc.OwnerName, acc.OwnerTaxID)

			for _, line := range st.Lines() {
				fmt.Fprintln(out, line)
			}

			fmt.Fprintf(out, "Balance: %s\n", acc.Balance.StringFixed(2))

			if xlsxPath == "" {
				return nil
			}

			if err := statementxlsx.WriteFile(xlsxPath, st); err != nil {
				return fmt.Errorf("exporting statement: %w", err)
			}

			fmt.Fprintf(out, "Statement exported to %s\n", xlsxPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also export the statement as an Excel workbook")

	return cmd
}
