// Package xlsxexport builds an Excel workbook from the record snapshot: an
// Invoices sheet mirroring the CSV export plus a Summary sheet with the
// dashboard aggregates.
package xlsxexport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"smartinvoice/internal/domain"
)

// Filename is the download filename for the XLSX export.
const Filename = "invoices_export.xlsx"

const (
	invoicesSheet = "Invoices"
	summarySheet  = "Summary"
)

var invoiceColumns = []any{
	"Date", "Vendor", "Category", "Total", "Currency", "Invoice #", "Payment Method",
}

// BuildWorkbook creates the export workbook. Records without status success
// are skipped; stats may be nil when no invoice has settled successfully, in
// which case the Summary sheet only carries headers.
func BuildWorkbook(records []domain.InvoiceRecord, stats *domain.DashboardStats) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", invoicesSheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeInvoices(f, records); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("creating summary sheet: %w", err)
	}
	if err := writeSummary(f, stats); err != nil {
		return nil, err
	}

	return f, nil
}

func writeInvoices(f *excelize.File, records []domain.InvoiceRecord) error {
	if err := setRow(f, invoicesSheet, 1, invoiceColumns); err != nil {
		return err
	}

	row := 2
	for i := range records {
		record := &records[i]
		if record.Status != domain.RecordStatusSuccess || record.Data == nil {
			continue
		}
		data := record.Data
		err := setRow(f, invoicesSheet, row, []any{
			data.Date,
			data.VendorName,
			string(data.Category),
			data.TotalAmount,
			data.Currency,
			data.InvoiceNumber,
			data.PaymentMethod,
		})
		if err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeSummary(f *excelize.File, stats *domain.DashboardStats) error {
	if err := setRow(f, summarySheet, 1, []any{"Total Spend", "Invoices"}); err != nil {
		return err
	}
	if stats == nil {
		return nil
	}
	if err := setRow(f, summarySheet, 2, []any{stats.TotalSpend, stats.InvoiceCount}); err != nil {
		return err
	}

	row := 4
	if err := setRow(f, summarySheet, row, []any{"Category", "Total"}); err != nil {
		return err
	}
	row++
	for _, entry := range stats.CategoryBreakdown {
		if err := setRow(f, summarySheet, row, []any{string(entry.Category), entry.Total}); err != nil {
			return err
		}
		row++
	}

	row++
	if err := setRow(f, summarySheet, row, []any{"Month", "Total"}); err != nil {
		return err
	}
	row++
	for _, entry := range stats.MonthlySpend {
		if err := setRow(f, summarySheet, row, []any{entry.Month, entry.Total}); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
