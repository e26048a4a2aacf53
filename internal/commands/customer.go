package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/datepkg"
	"github.com/go-petr/pet-ledger/pkg/taxidpkg"
)

func newCustomerCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Register and list customers",
	}

	cmd.AddCommand(newCustomerRegisterCommand(a), newCustomerListCommand(a))

	return cmd
}

func validateCustomer(arg domain.RegisterCustomerParams) error {
	if strings.TrimSpace(arg.Name) == "" {
		return invalidInput("name must not be empty")
	}

	if !datepkg.IsValidDate(arg.Birthdate) {
		return invalidInput("birthdate %q must be a valid dd-mm-yyyy date", arg.Birthdate)
	}

	if !taxidpkg.IsValid(arg.TaxID) {
		return invalidInput("tax ID %q must have %d digits", arg.TaxID, taxidpkg.Length)
	}

	if strings.TrimSpace(arg.Address) == "" {
		return invalidInput("address must not be empty")
	}

	return nil
}

func newCustomerRegisterCommand(a *app) *cobra.Command {
	var arg domain.RegisterCustomerParams

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateCustomer(arg); err != nil {
				return err
			}

			customer, err := a.ledger.Customers.Register(a.ctx, arg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Customer %s registered with tax ID %s.\n", customer.Name, customer.TaxID)

			return nil
		},
	}

	cmd.Flags().StringVar(&arg.Name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&arg.Birthdate, "birthdate", "", "birthdate as dd-mm-yyyy (required)")
	cmd.Flags().StringVar(&arg.TaxID, "tax-id", "", "tax ID, 11 digits (required)")
	cmd.Flags().StringVar(&arg.Address, "address", "", "address (required)")
	cmd.Flags().StringVar(&arg.Password, "password", "", "password for the HTTP API")

	for _, name := range []string{"name", "birthdate", "tax-id", "address"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newCustomerListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			customers := a.ledger.Customers.List(a.ctx)
			if len(customers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No customers registered.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TAX ID\tNAME\tBIRTHDATE\tADDRESS")

			for _, c := range customers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.TaxID, c.Name, c.Birthdate, c.Address)
			}

			return w.Flush()
		},
	}
}
