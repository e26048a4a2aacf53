// Package statementxlsx exports account statements as Excel workbooks.
package statementxlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/datepkg"
)

// SheetName is the name of the sheet holding the statement.
const SheetName = "Statement"

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// numFmtTwoDecimals is the built-in "0.00" number format.
const numFmtTwoDecimals = 2

// Build returns a workbook with the account summary followed by one row per entry.
// The caller must Close the returned file.
func Build(st domain.Statement) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	if err := fill(f, st); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func fill(f *excelize.File, st domain.Statement) error {
	acc := st.Account

	rows := [][]any{
		{"Account", acc.DisplayNumber},
		{"Branch", acc.Branch},
		{"Owner", acc.OwnerName},
		{"Tax ID", acc.OwnerTaxID},
		{"Balance", acc.Balance.InexactFloat64()},
		{},
		{"Kind", "Timestamp", "Amount"},
	}

	if len(st.Entries) == 0 {
		rows = append(rows, []any{domain.NoMovements})
	}

	for _, e := range st.Entries {
		rows = append(rows, []any{string(e.Kind), datepkg.FormatTimestamp(e.Timestamp), e.Amount.InexactFloat64()})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(SheetName, "B5", "B5", style); err != nil {
		return err
	}

	if len(st.Entries) > 0 {
		last := fmt.Sprintf("C%d", len(rows))
		if err := f.SetCellStyle(SheetName, "C8", last, style); err != nil {
			return err
		}
	}

	return f.SetColWidth(SheetName, "A", "C", 22)
}

// Write writes the statement workbook to w.
func Write(w io.Writer, st domain.Statement) error {
	f, err := Build(st)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

// WriteFile saves the statement workbook at path.
func WriteFile(path string, st domain.Statement) error {
	f, err := Build(st)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.SaveAs(path)
}
