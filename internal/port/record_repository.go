package port

import (
	"context"

	"github.com/google/uuid"

	"smartinvoice/internal/domain"
)

// RecordRepository is the single source of truth for invoice records.
//
// Implementations keep records ordered most-recent-first and replace whole
// records atomically: concurrent readers observe either the full old record
// or the full new one, never a partial write. MarkSuccess and MarkError may
// only be applied to a processing record; they return
// domain.ErrRecordNotProcessing once a record has settled. UpdateData may
// only be applied to a success record.
type RecordRepository interface {
	Create(ctx context.Context, record *domain.InvoiceRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceRecord, error)
	List(ctx context.Context) ([]domain.InvoiceRecord, error)
	MarkSuccess(ctx context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error)
	MarkError(ctx context.Context, id uuid.UUID, message string) (*domain.InvoiceRecord, error)
	UpdateData(ctx context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error)
}
