package extract

import (
	"strings"

	"smartinvoice/internal/domain"
)

// BuildInvoicePrompt returns the extraction prompt sent alongside the
// document bytes.
func BuildInvoicePrompt() string {
	categories := domain.Categories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}

	return `Analyze this invoice or receipt image/PDF. Extract the following structured data:
1. Vendor/Merchant Name
2. Invoice Number (if available, else empty)
3. Date (Format YYYY-MM-DD)
4. Currency (e.g., USD, EUR)
5. Subtotal, Tax, and Total Amount
6. Payment Method (e.g., "Credit Card", "Cash", "Visa *1234")
7. Line Items (description, quantity, unit price, total)
8. Categorize the expense into one of these: ` + strings.Join(names, ", ") + `.
9. Assess confidence level (High, Medium, Low) based on image clarity and data completeness.
10. Add AI notes explaining any low confidence fields or if the document is damaged/blurry.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation.
The JSON object must use exactly these keys:
{
  "vendorName": "",
  "invoiceNumber": "",
  "date": "",
  "currency": "",
  "subtotal": 0,
  "tax": 0,
  "totalAmount": 0,
  "paymentMethod": "",
  "category": "",
  "lineItems": [
    {"description": "", "quantity": 0, "unitPrice": 0, "total": 0}
  ],
  "confidenceLevel": "",
  "aiNotes": ""
}`
}
