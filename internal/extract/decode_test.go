package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartinvoice/internal/domain"
	"smartinvoice/internal/extract"
)

const validJSON = `{
	"vendorName": "Acme Corp",
	"invoiceNumber": "INV-001",
	"date": "2024-03-15",
	"currency": "USD",
	"subtotal": 25.50,
	"tax": 2.00,
	"totalAmount": 27.50,
	"paymentMethod": "Credit Card",
	"category": "Office Supplies",
	"lineItems": [
		{"description": "Widget", "quantity": 2, "unitPrice": 10.00, "total": 20.00},
		{"description": "Gadget", "quantity": 1, "unitPrice": 5.50, "total": 5.50}
	],
	"confidenceLevel": "High",
	"aiNotes": ""
}`

func TestDecodeInvoiceData_Valid(t *testing.T) {
	data, err := extract.DecodeInvoiceData([]byte(validJSON))
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", data.VendorName)
	assert.Equal(t, "2024-03-15", data.Date)
	assert.Equal(t, 27.50, data.TotalAmount)
	assert.Equal(t, domain.CategoryOfficeSupplies, data.Category)
	assert.Equal(t, domain.ConfidenceHigh, data.ConfidenceLevel)
	require.Len(t, data.LineItems, 2)
	assert.Equal(t, "Widget", data.LineItems[0].Description)
}

func TestDecodeInvoiceData_NotJSON(t *testing.T) {
	_, err := extract.DecodeInvoiceData([]byte("I could not read this document"))
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceData)
}

func TestDecodeInvoiceData_MissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"vendorName":  `{"date":"2024-01-01","totalAmount":1,"category":"Travel","lineItems":[]}`,
		"date":        `{"vendorName":"V","totalAmount":1,"category":"Travel","lineItems":[]}`,
		"totalAmount": `{"vendorName":"V","date":"2024-01-01","category":"Travel","lineItems":[]}`,
		"category":    `{"vendorName":"V","date":"2024-01-01","totalAmount":1,"lineItems":[]}`,
		"lineItems":   `{"vendorName":"V","date":"2024-01-01","totalAmount":1,"category":"Travel"}`,
	}
	for missing, payload := range cases {
		_, err := extract.DecodeInvoiceData([]byte(payload))
		assert.ErrorIs(t, err, domain.ErrInvalidInvoiceData, "missing %s should be rejected", missing)
	}
}

func TestDecodeInvoiceData_EmptyLineItemsAllowed(t *testing.T) {
	payload := `{"vendorName":"V","date":"2024-01-01","totalAmount":12.00,"category":"Travel","lineItems":[]}`
	data, err := extract.DecodeInvoiceData([]byte(payload))
	require.NoError(t, err)
	assert.Empty(t, data.LineItems)
}

func TestDecodeInvoiceData_EmptyCategoryDefaultsToUncategorized(t *testing.T) {
	payload := `{"vendorName":"V","date":"2024-01-01","totalAmount":1,"category":"","lineItems":[]}`
	data, err := extract.DecodeInvoiceData([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryUncategorized, data.Category)
}

func TestDecodeInvoiceData_UnknownCategoryRejected(t *testing.T) {
	payload := `{"vendorName":"V","date":"2024-01-01","totalAmount":1,"category":"Groceries","lineItems":[]}`
	_, err := extract.DecodeInvoiceData([]byte(payload))
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceData)
}

func TestDecodeInvoiceData_EmptyConfidenceDefaultsToMedium(t *testing.T) {
	payload := `{"vendorName":"V","date":"2024-01-01","totalAmount":1,"category":"Travel","lineItems":[]}`
	data, err := extract.DecodeInvoiceData([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, domain.ConfidenceMedium, data.ConfidenceLevel)
}

func TestDecodeInvoiceData_UnknownConfidenceRejected(t *testing.T) {
	payload := `{"vendorName":"V","date":"2024-01-01","totalAmount":1,"category":"Travel","lineItems":[],"confidenceLevel":"Certain"}`
	_, err := extract.DecodeInvoiceData([]byte(payload))
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceData)
}

func TestDecodeInvoiceData_NegativeAmountsRejected(t *testing.T) {
	payload := `{"vendorName":"V","date":"2024-01-01","totalAmount":-5,"category":"Travel","lineItems":[]}`
	_, err := extract.DecodeInvoiceData([]byte(payload))
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceData)

	payload = `{"vendorName":"V","date":"2024-01-01","totalAmount":5,"category":"Travel","lineItems":[{"description":"x","quantity":-1,"unitPrice":1,"total":1}]}`
	_, err = extract.DecodeInvoiceData([]byte(payload))
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceData)
}
