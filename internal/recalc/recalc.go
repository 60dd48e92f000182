// Package recalc is the line-item recalculation engine. Every derived total
// in an invoice (item total, subtotal, grand total) is computed here and
// nowhere else, so the invariant
//
//	subtotal == round2(sum of line item totals)
//	totalAmount == round2(subtotal + tax)
//
// holds for every data snapshot that passes through an edit. All functions
// are pure: inputs are never mutated and applying the same edit twice yields
// the same result as applying it once.
package recalc

import (
	"math"

	"smartinvoice/internal/domain"
)

// Line item field names accepted by ApplyLineItemEdit.
const (
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unitPrice"
)

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ApplyLineItemEdit returns a new InvoiceData with the given field of line
// item index replaced by value and all derived totals recomputed. Editing
// description leaves the item total untouched; editing quantity or unitPrice
// recomputes it as round2(quantity * unitPrice). value must be a string for
// description and a float64 for the numeric fields.
func ApplyLineItemEdit(data domain.InvoiceData, index int, field string, value any) (domain.InvoiceData, error) {
	if index < 0 || index >= len(data.LineItems) {
		return domain.InvoiceData{}, domain.ErrInvalidLineItemIndex
	}

	out := data.Clone()
	item := &out.LineItems[index]

	switch field {
	case FieldDescription:
		s, ok := value.(string)
		if !ok {
			return domain.InvoiceData{}, domain.ErrInvalidFieldValue
		}
		item.Description = s

	case FieldQuantity:
		q, ok := toFloat(value)
		if !ok {
			return domain.InvoiceData{}, domain.ErrInvalidFieldValue
		}
		if q < 0 {
			return domain.InvoiceData{}, domain.ErrNegativeAmount
		}
		item.Quantity = q
		item.Total = Round2(item.Quantity * item.UnitPrice)

	case FieldUnitPrice:
		p, ok := toFloat(value)
		if !ok {
			return domain.InvoiceData{}, domain.ErrInvalidFieldValue
		}
		if p < 0 {
			return domain.InvoiceData{}, domain.ErrNegativeAmount
		}
		item.UnitPrice = p
		item.Total = Round2(item.Quantity * item.UnitPrice)

	default:
		return domain.InvoiceData{}, domain.ErrInvalidLineItemField
	}

	recalcTotals(&out)
	return out, nil
}

// ApplyTaxEdit returns a new InvoiceData with tax replaced and the grand
// total recomputed. The subtotal is left untouched.
func ApplyTaxEdit(data domain.InvoiceData, tax float64) (domain.InvoiceData, error) {
	if tax < 0 {
		return domain.InvoiceData{}, domain.ErrNegativeAmount
	}
	out := data.Clone()
	out.Tax = Round2(tax)
	out.TotalAmount = Round2(out.Subtotal + out.Tax)
	return out, nil
}

// Normalize returns a new InvoiceData with subtotal and totalAmount
// recomputed from the line items and tax. Item totals are trusted as given;
// only the sums are re-derived. An invoice with no line items keeps its
// extracted subtotal (the extractor may report totals without itemizing).
// Used to enforce the invariant on wholesale data replacements from the
// editor.
func Normalize(data domain.InvoiceData) domain.InvoiceData {
	out := data.Clone()
	if len(out.LineItems) == 0 {
		out.Subtotal = Round2(out.Subtotal)
		out.Tax = Round2(out.Tax)
		out.TotalAmount = Round2(out.Subtotal + out.Tax)
		return out
	}
	recalcTotals(&out)
	return out
}

func recalcTotals(data *domain.InvoiceData) {
	var sum float64
	for _, item := range data.LineItems {
		sum += item.Total
	}
	data.Subtotal = Round2(sum)
	data.TotalAmount = Round2(data.Subtotal + data.Tax)
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
