package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"smartinvoice/internal/domain"
)

// MockRecordRepository is a mock implementation of port.RecordRepository.
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Create(ctx context.Context, record *domain.InvoiceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockRecordRepository) List(ctx context.Context) ([]domain.InvoiceRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceRecord), args.Error(1)
}

func (m *MockRecordRepository) MarkSuccess(ctx context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockRecordRepository) MarkError(ctx context.Context, id uuid.UUID, message string) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, id, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockRecordRepository) UpdateData(ctx context.Context, id uuid.UUID, data domain.InvoiceData) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}
