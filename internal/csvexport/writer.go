// Package csvexport serializes successfully extracted invoices as CSV.
package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"smartinvoice/internal/domain"
)

// Filename is the download filename for the CSV export.
const Filename = "invoices_export.csv"

// BOM is the UTF-8 byte order mark, for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Date",
	"Vendor",
	"Category",
	"Total",
	"Currency",
	"Invoice #",
	"Payment Method",
}

// Writer wraps csv.Writer for exporting invoice records as CSV. Fields with
// embedded commas or quotes are escaped per RFC 4180 by encoding/csv.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecords converts records to CSV rows and writes them in the given
// order. Records without status success are skipped entirely.
func (w *Writer) WriteRecords(records []domain.InvoiceRecord) error {
	for i := range records {
		record := &records[i]
		if record.Status != domain.RecordStatusSuccess || record.Data == nil {
			continue
		}
		if err := w.csv.Write(recordToRow(record.Data)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func recordToRow(data *domain.InvoiceData) []string {
	return []string{
		data.Date,
		data.VendorName,
		string(data.Category),
		formatMoney(data.TotalAmount),
		data.Currency,
		data.InvoiceNumber,
		data.PaymentMethod,
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
