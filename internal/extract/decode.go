package extract

import (
	"encoding/json"
	"fmt"

	"smartinvoice/internal/domain"
)

// payload mirrors the JSON shape the prompt asks the model for. Pointer
// fields distinguish absent from zero so required-field checks work.
type payload struct {
	VendorName      *string           `json:"vendorName"`
	InvoiceNumber   string            `json:"invoiceNumber"`
	Date            *string           `json:"date"`
	Currency        string            `json:"currency"`
	Subtotal        float64           `json:"subtotal"`
	Tax             float64           `json:"tax"`
	TotalAmount     *float64          `json:"totalAmount"`
	PaymentMethod   string            `json:"paymentMethod"`
	Category        *string           `json:"category"`
	LineItems       []payloadLineItem `json:"lineItems"`
	ConfidenceLevel string            `json:"confidenceLevel"`
	AINotes         string            `json:"aiNotes"`
}

type payloadLineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// DecodeInvoiceData is the schema validation boundary between the extraction
// provider and the record store. It unmarshals the model's JSON and admits
// it only if the required fields (vendorName, date, totalAmount, category,
// lineItems) are present, enum values are members of their closed sets, and
// amounts are non-negative. Optional fields are defaulted: an absent
// confidence level becomes Medium, an empty category becomes Uncategorized.
func DecodeInvoiceData(raw []byte) (*domain.InvoiceData, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInvoiceData, err)
	}

	switch {
	case p.VendorName == nil || *p.VendorName == "":
		return nil, fmt.Errorf("%w: missing vendorName", domain.ErrInvalidInvoiceData)
	case p.Date == nil || *p.Date == "":
		return nil, fmt.Errorf("%w: missing date", domain.ErrInvalidInvoiceData)
	case p.TotalAmount == nil:
		return nil, fmt.Errorf("%w: missing totalAmount", domain.ErrInvalidInvoiceData)
	case p.Category == nil:
		return nil, fmt.Errorf("%w: missing category", domain.ErrInvalidInvoiceData)
	case p.LineItems == nil:
		return nil, fmt.Errorf("%w: missing lineItems", domain.ErrInvalidInvoiceData)
	}

	category := domain.ExpenseCategory(*p.Category)
	if category == "" {
		category = domain.CategoryUncategorized
	}
	if !domain.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInvoiceData, *p.Category)
	}

	confidence := domain.ConfidenceLevel(p.ConfidenceLevel)
	if confidence == "" {
		confidence = domain.ConfidenceMedium
	}
	if !domain.ValidConfidence(confidence) {
		return nil, fmt.Errorf("%w: unknown confidence level %q", domain.ErrInvalidInvoiceData, p.ConfidenceLevel)
	}

	if p.Subtotal < 0 || p.Tax < 0 || *p.TotalAmount < 0 {
		return nil, fmt.Errorf("%w: negative amount", domain.ErrInvalidInvoiceData)
	}

	data := &domain.InvoiceData{
		VendorName:      *p.VendorName,
		InvoiceNumber:   p.InvoiceNumber,
		Date:            *p.Date,
		Currency:        p.Currency,
		Subtotal:        p.Subtotal,
		Tax:             p.Tax,
		TotalAmount:     *p.TotalAmount,
		PaymentMethod:   p.PaymentMethod,
		Category:        category,
		LineItems:       make([]domain.LineItem, 0, len(p.LineItems)),
		ConfidenceLevel: confidence,
		AINotes:         p.AINotes,
	}

	for i, item := range p.LineItems {
		if item.Quantity < 0 || item.UnitPrice < 0 || item.Total < 0 {
			return nil, fmt.Errorf("%w: negative amount in line item %d", domain.ErrInvalidInvoiceData, i)
		}
		data.LineItems = append(data.LineItems, domain.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	return data, nil
}
