package domain

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is one purchased item row within an invoice. Total is derived as
// quantity * unit price unless the extractor reported it independently.
type LineItem struct {
	Description string  `db:"-" json:"description"`
	Quantity    float64 `db:"-" json:"quantity"`
	UnitPrice   float64 `db:"-" json:"unitPrice"`
	Total       float64 `db:"-" json:"total"`
}

// InvoiceData holds the structured fields extracted from a document.
// Monetary amounts are 2-decimal values; the recalculation engine maintains
// subtotal == sum(lineItems.total) and totalAmount == subtotal + tax.
type InvoiceData struct {
	VendorName      string          `json:"vendorName"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	Date            string          `json:"date"` // ISO YYYY-MM-DD
	Currency        string          `json:"currency"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	TotalAmount     float64         `json:"totalAmount"`
	PaymentMethod   string          `json:"paymentMethod"`
	Category        ExpenseCategory `json:"category"`
	LineItems       []LineItem      `json:"lineItems"`
	ConfidenceLevel ConfidenceLevel `json:"confidenceLevel"`
	AINotes         string          `json:"aiNotes"`
}

// Clone returns a deep copy of the invoice data.
func (d InvoiceData) Clone() InvoiceData {
	out := d
	out.LineItems = make([]LineItem, len(d.LineItems))
	copy(out.LineItems, d.LineItems)
	return out
}

// InvoiceRecord is one uploaded document plus its lifecycle status and, once
// extraction settles, its data or error message. Data is present iff status
// is success; ErrorMessage is present iff status is error.
type InvoiceRecord struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	FileName     string       `db:"file_name" json:"file_name"`
	FileRef      string       `db:"file_ref" json:"file_ref"`
	ContentType  string       `db:"content_type" json:"content_type"`
	FileSize     int64        `db:"file_size" json:"file_size"`
	Status       RecordStatus `db:"status" json:"status"`
	Data         *InvoiceData `db:"-" json:"data,omitempty"`
	ErrorMessage string       `db:"error_message" json:"error_message,omitempty"`
	UploadedAt   time.Time    `db:"uploaded_at" json:"uploaded_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy of the record, including its data snapshot.
func (r *InvoiceRecord) Clone() *InvoiceRecord {
	out := *r
	if r.Data != nil {
		data := r.Data.Clone()
		out.Data = &data
	}
	return &out
}

// CategoryTotal is one slice of the category breakdown.
type CategoryTotal struct {
	Category ExpenseCategory `json:"category"`
	Total    float64         `json:"total"`
}

// MonthlyTotal is the summed spend for one calendar month.
type MonthlyTotal struct {
	Month string  `json:"month"` // e.g. "Mar 24"
	Total float64 `json:"total"`
}

// DashboardStats holds the aggregates rendered on the dashboard.
type DashboardStats struct {
	TotalSpend        float64         `json:"total_spend"`
	InvoiceCount      int             `json:"invoice_count"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
	MonthlySpend      []MonthlyTotal  `json:"monthly_spend"`
}
