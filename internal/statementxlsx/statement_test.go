package statementxlsx

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/test"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	owner := test.RandomCustomer()
	account := test.RandomAccount(t, owner, 12)
	at := time.Date(2025, time.July, 3, 14, 30, 0, 0, time.Local)

	_, err := account.Deposit(decimal.RequireFromString("300.5"), at)
	require.NoError(t, err)

	_, err = account.Withdraw(decimal.NewFromInt(100), at.Add(time.Minute))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, account.Statement()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 9)

	require.Equal(t, []string{"Account", "000012"}, rows[0])
	require.Equal(t, []string{"Tax ID", owner.TaxID}, rows[3])
	require.Equal(t, "200.50", rows[4][1])
	require.Equal(t, []string{"Kind", "Timestamp", "Amount"}, rows[6])
	require.Equal(t, []string{"Deposit", "03-07-2025 14:30:00", "300.50"}, rows[7])
	require.Equal(t, []string{"Withdrawal", "03-07-2025 14:31:00", "100.00"}, rows[8])
}

func TestWriteFileEmptyHistory(t *testing.T) {
	t.Parallel()

	account := test.RandomAccount(t, test.RandomCustomer(), 1)
	path := filepath.Join(t.TempDir(), "statement.xlsx")

	require.NoError(t, WriteFile(path, account.Statement()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	require.Equal(t, []string{domain.NoMovements}, rows[7])
}
