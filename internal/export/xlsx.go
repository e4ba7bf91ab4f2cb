// Package export writes stored receipts to spreadsheet formats.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/bon-scanner/internal/model"
)

// Sheet names of the workbook.
const (
	SheetReceipts   = "Receipts"
	SheetEntries    = "Entries"
	SheetCategories = "Categories"
)

var (
	receiptHeaders  = []string{"ID", "Date", "Total", "Computed", "Items"}
	entryHeaders    = []string{"Receipt", "Date", "Category", "Product", "Price"}
	categoryHeaders = []string{"Category", "Total"}
)

// WriteXLSX writes a workbook with one sheet of receipts, one of entries and a
// category summary across all receipts.
func WriteXLSX(w io.Writer, receipts []model.Receipt) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetReceipts); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, sheet := range []string{SheetEntries, SheetCategories} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	mismatch, err := f.NewStyle(&excelize.Style{NumFmt: 2, Font: &excelize.Font{Color: "9A0511"}})
	if err != nil {
		return fmt.Errorf("failed to create mismatch style: %w", err)
	}

	var receiptRows, entryRows, categoryRows [][]any
	for _, r := range receipts {
		receiptRows = append(receiptRows, []any{
			r.ID, r.Date, r.Price.InexactFloat64(), r.ComputedTotal().InexactFloat64(), len(r.Entries),
		})
		for _, e := range r.Entries {
			entryRows = append(entryRows, []any{r.ID, r.Date, e.Category, e.Product, e.Price.InexactFloat64()})
		}
	}
	for _, s := range model.SummarizeAll(receipts) {
		categoryRows = append(categoryRows, []any{s.Category, s.Total.InexactFloat64()})
	}

	sheets := []struct {
		name      string
		headers   []string
		rows      [][]any
		moneyCols []int
	}{
		{SheetReceipts, receiptHeaders, receiptRows, []int{3, 4}},
		{SheetEntries, entryHeaders, entryRows, []int{5}},
		{SheetCategories, categoryHeaders, categoryRows, []int{2}},
	}

	for _, sheet := range sheets {
		if err := writeSheet(f, sheet.name, sheet.headers, sheet.rows); err != nil {
			return err
		}
		if err := styleRow(f, sheet.name, 1, len(sheet.headers), header); err != nil {
			return err
		}
		for _, col := range sheet.moneyCols {
			if err := styleColumn(f, sheet.name, col, len(sheet.rows), money); err != nil {
				return err
			}
		}
	}

	// Highlight totals that do not reconcile with their entries.
	for i, r := range receipts {
		if r.Price.Sub(r.ComputedTotal()).Abs().LessThanOrEqual(model.DefaultReconcileTolerance) {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(3, i+2)
		if err := f.SetCellStyle(SheetReceipts, cell, cell, mismatch); err != nil {
			return fmt.Errorf("failed to style %s: %w", cell, err)
		}
	}

	if err := f.SetPanes(SheetEntries, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s!%s: %w", sheet, cell, err)
		}
	}

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+2, sheet, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	from, _ := excelize.CoordinatesToCellName(1, row)
	to, _ := excelize.CoordinatesToCellName(cols, row)
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		return fmt.Errorf("failed to style %s!%s:%s: %w", sheet, from, to, err)
	}
	return nil
}

func styleColumn(f *excelize.File, sheet string, col, rows, style int) error {
	if rows == 0 {
		return nil
	}
	from, _ := excelize.CoordinatesToCellName(col, 2)
	to, _ := excelize.CoordinatesToCellName(col, rows+1)
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		return fmt.Errorf("failed to style %s!%s:%s: %w", sheet, from, to, err)
	}
	return nil
}
