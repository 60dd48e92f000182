package port

import (
	"context"

	"smartinvoice/internal/domain"
)

// ExtractInput carries the document bytes handed to the extraction provider.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// InvoiceExtractor abstracts LLM-based invoice field extraction.
// Implementations return data that has already passed the schema validation
// boundary: required fields present, enum values valid, amounts non-negative.
type InvoiceExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*domain.InvoiceData, error)
}
