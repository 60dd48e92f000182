// Package store provides the in-memory record store driver. It is the
// default driver and the reference model for the record lifecycle: an
// id-keyed map plus a most-recent-first order slice, guarded by a RWMutex.
// Records are deep-copied on the way in and out, so a reader can never
// observe a partially mutated record and callers cannot reach into the
// store's state through a returned pointer.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartinvoice/internal/domain"
	"smartinvoice/internal/port"
)

type memoryRepo struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*domain.InvoiceRecord
	order   []uuid.UUID // most-recent-first
}

// NewMemoryRepo creates an in-memory RecordRepository.
func NewMemoryRepo() port.RecordRepository {
	return &memoryRepo{
		records: make(map[uuid.UUID]*domain.InvoiceRecord),
	}
}

func (r *memoryRepo) Create(_ context.Context, record *domain.InvoiceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	record.UploadedAt = now
	record.UpdatedAt = now
	record.Status = domain.RecordStatusProcessing

	r.records[record.ID] = record.Clone()
	r.order = append([]uuid.UUID{record.ID}, r.order...)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.InvoiceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record.Clone(), nil
}

func (r *memoryRepo) List(_ context.Context) ([]domain.InvoiceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.InvoiceRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.records[id].Clone())
	}
	return out, nil
}

func (r *memoryRepo) MarkSuccess(_ context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error) {
	return r.replace(id, func(record *domain.InvoiceRecord) error {
		if record.Status != domain.RecordStatusProcessing {
			return domain.ErrRecordNotProcessing
		}
		cloned := data.Clone()
		record.Status = domain.RecordStatusSuccess
		record.Data = &cloned
		record.ErrorMessage = ""
		return nil
	})
}

func (r *memoryRepo) MarkError(_ context.Context, id uuid.UUID, message string) (*domain.InvoiceRecord, error) {
	return r.replace(id, func(record *domain.InvoiceRecord) error {
		if record.Status != domain.RecordStatusProcessing {
			return domain.ErrRecordNotProcessing
		}
		record.Status = domain.RecordStatusError
		record.Data = nil
		record.ErrorMessage = message
		return nil
	})
}

func (r *memoryRepo) UpdateData(_ context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error) {
	return r.replace(id, func(record *domain.InvoiceRecord) error {
		if record.Status != domain.RecordStatusSuccess {
			return domain.ErrRecordNotEditable
		}
		cloned := data.Clone()
		record.Data = &cloned
		return nil
	})
}

// replace mutates a fresh copy of the stored record under the write lock and
// swaps it in whole, so the mutation is atomic with respect to readers.
func (r *memoryRepo) replace(id uuid.UUID, mutate func(*domain.InvoiceRecord) error) (*domain.InvoiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()

	r.records[id] = next
	return next.Clone(), nil
}
