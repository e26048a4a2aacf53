// Package commands implements the ledgerctl command line interface.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/bootstrap"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
)

// CodeInvalidInput is printed for arguments rejected before reaching the ledger.
const CodeInvalidInput = domain.CodeInvalidInput

var errInvalidInput = errors.New("invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidInput, fmt.Sprintf(format, args...))
}

// ErrorCode returns the stable code printed for err.
func ErrorCode(err error) string {
	if errors.Is(err, errInvalidInput) {
		return CodeInvalidInput
	}

	return domain.Code(err)
}

type app struct {
	configDir string
	ctx       context.Context
	ledger    *bootstrap.Ledger
}

func (a *app) open(cmd *cobra.Command) error {
	config, err := configpkg.Load(a.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := middleware.NewLogger(config, cmd.ErrOrStderr(), zerolog.WarnLevel)
	a.ctx = logger.WithContext(cmd.Context())

	a.ledger, err = bootstrap.New(a.ctx, config)
	if err != nil {
		return err
	}

	return nil
}

func (a *app) close() {
	if a.ledger != nil {
		a.ledger.Close()
	}
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Manage customers, checking accounts and their transactions",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configDir, "config", "./configs", "directory holding app.env")

	rootCmd.AddCommand(
		newCustomerCommand(a),
		newAccountCommand(a),
		newTransactionCommand(a, domain.EntryDeposit),
		newTransactionCommand(a, domain.EntryWithdrawal),
		newStatementCommand(a),
	)

	return rootCmd
}

// Execute runs the CLI with args and returns the process exit code.
// Failures are printed to stderr as "CODE: message".
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.close()

	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", ErrorCode(err), err)
		return 1
	}

	return 0
}
